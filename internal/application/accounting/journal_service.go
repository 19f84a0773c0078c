package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/domain/accounting"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// JournalService posts and reverses journal entries.
type JournalService struct {
	journal accounting.JournalRepository
	guard   *PeriodGuard
	uow     shared.UnitOfWork
	logger  *zap.Logger
}

// NewJournalService creates a new JournalService
func NewJournalService(
	journal accounting.JournalRepository,
	guard *PeriodGuard,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *JournalService {
	return &JournalService{
		journal: journal,
		guard:   guard,
		uow:     uow,
		logger:  logger,
	}
}

// Post creates a balanced journal entry with its lines atomically
func (s *JournalService) Post(ctx context.Context, companyID uuid.UUID, actor Actor, date time.Time, description string, lines []accounting.LineInput) (*accounting.JournalEntry, error) {
	if err := s.guard.Check(ctx, companyID, date, actor); err != nil {
		return nil, err
	}

	entry, err := accounting.NewJournalEntry(companyID, date, description, lines)
	if err != nil {
		return nil, err
	}
	entry.SetCreatedBy(actor.UserID)

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		return s.journal.Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("journal entry posted",
		zap.String("company_id", companyID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.String("total", entry.TotalDebit().String()))
	return entry, nil
}

// Reverse posts the correcting entry for an existing one. The reversal
// carries the reversal date and must itself pass the period guard.
func (s *JournalService) Reverse(ctx context.Context, companyID uuid.UUID, actor Actor, entryID uuid.UUID, date time.Time, description string) (*accounting.JournalEntry, error) {
	if err := s.guard.Check(ctx, companyID, date, actor); err != nil {
		return nil, err
	}

	original, err := s.journal.FindByIDForCompany(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	reversal, err := original.Reverse(date, description)
	if err != nil {
		return nil, err
	}
	reversal.SetCreatedBy(actor.UserID)

	err = s.uow.Execute(ctx, func(ctx context.Context) error {
		return s.journal.Save(ctx, reversal)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("journal entry reversed",
		zap.String("company_id", companyID.String()),
		zap.String("original_id", entryID.String()),
		zap.String("reversal_id", reversal.ID.String()))
	return reversal, nil
}
