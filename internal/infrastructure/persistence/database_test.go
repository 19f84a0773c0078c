package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockDatabase wires a Database over a sqlmock connection so SQL sent by
// GORM can be asserted without a running server.
func mockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       conn,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, conn
}

func TestDatabaseQueriesAreParameterized(t *testing.T) {
	db, mock, conn := mockDatabase(t)
	defer conn.Close()

	type Account struct {
		ID        string
		CompanyID string
		Number    string
	}

	companyID := "550e8400-e29b-41d4-a716-446655440000"
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE company_id = \$1`).
		WithArgs(companyID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "number"}).
			AddRow("a-1", companyID, "1200"))

	var accounts []Account
	err := db.DB.Where("company_id = ?", companyID).Find(&accounts).Error
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "1200", accounts[0].Number)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseTransactionRollback(t *testing.T) {
	db, mock, conn := mockDatabase(t)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseClose(t *testing.T) {
	db, mock, _ := mockDatabase(t)

	mock.ExpectClose()

	require.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
