package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/backend/internal/domain/shared"
)

func money(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newSale(t *testing.T) *Transaction {
	t.Helper()
	txn, err := NewTransaction(uuid.New(), TypeSale, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), "Counter sale")
	require.NoError(t, err)
	return txn
}

func TestTransaction_Totals(t *testing.T) {
	t.Run("total derived from item lines", func(t *testing.T) {
		txn := newSale(t)
		require.NoError(t, txn.AddItem(uuid.New(), money("2"), money("50"), nil, "widgets"))
		require.NoError(t, txn.AddItem(uuid.New(), money("1"), money("30"), nil, "gadget"))

		assert.True(t, txn.TotalAmount.Equal(money("130")))
	})

	t.Run("total derived from expense splits", func(t *testing.T) {
		txn, err := NewTransaction(uuid.New(), TypeExpense, time.Now(), "Office costs")
		require.NoError(t, err)
		require.NoError(t, txn.AddExpenseLine(uuid.New(), money("200"), "rent"))
		require.NoError(t, txn.AddExpenseLine(uuid.New(), money("45.50"), "supplies"))

		assert.True(t, txn.TotalAmount.Equal(money("245.50")))
	})

	t.Run("item and expense lines are mutually exclusive", func(t *testing.T) {
		txn := newSale(t)
		require.NoError(t, txn.AddItem(uuid.New(), money("1"), money("10"), nil, ""))

		err := txn.AddExpenseLine(uuid.New(), money("5"), "")
		assert.Error(t, err)
	})

	t.Run("manual total only without lines", func(t *testing.T) {
		txn := newSale(t)
		require.NoError(t, txn.SetManualTotal(money("99.99")))
		assert.True(t, txn.TotalAmount.Equal(money("99.99")))

		require.NoError(t, txn.AddItem(uuid.New(), money("1"), money("10"), nil, ""))
		assert.Error(t, txn.SetManualTotal(money("50")))
	})
}

func TestTransaction_PaymentStatus(t *testing.T) {
	txn := newSale(t)
	require.NoError(t, txn.AddItem(uuid.New(), money("1"), money("50"), nil, ""))

	assert.Equal(t, StatusUnpaid, txn.PaymentStatus())

	require.NoError(t, txn.RecordPayment(money("20")))
	assert.Equal(t, StatusPartiallyPaid, txn.PaymentStatus())
	assert.True(t, txn.BalanceDue().Equal(money("30")))

	require.NoError(t, txn.RecordPayment(money("30")))
	assert.Equal(t, StatusPaid, txn.PaymentStatus())
	assert.True(t, txn.BalanceDue().IsZero())
}

func TestTransaction_RecordPayment(t *testing.T) {
	txn := newSale(t)
	require.NoError(t, txn.AddItem(uuid.New(), money("1"), money("50"), nil, ""))

	err := txn.RecordPayment(money("60"))
	assert.ErrorIs(t, err, shared.ErrOverpayment)

	err = txn.RecordPayment(decimal.Zero)
	assert.Error(t, err)
}

func TestTransaction_ZeroTotalIsNotApplicable(t *testing.T) {
	txn, err := NewTransaction(uuid.New(), TypePayment, time.Now(), "placeholder")
	require.NoError(t, err)
	assert.Equal(t, StatusNotApplicable, txn.PaymentStatus())
}

func TestTransactionType_CounterpartyRoles(t *testing.T) {
	assert.True(t, TypeSale.NeedsCustomerRole())
	assert.True(t, TypePayment.NeedsCustomerRole())
	assert.True(t, TypePurchase.NeedsVendorRole())
	assert.True(t, TypeExpense.NeedsVendorRole())
	assert.False(t, TypeSale.NeedsVendorRole())
	assert.False(t, TypeExpense.NeedsCustomerRole())
}

func TestCategory_Allows(t *testing.T) {
	cat, err := NewCategory(uuid.New(), "Utilities", []TransactionType{TypeExpense, TypePurchase})
	require.NoError(t, err)

	assert.True(t, cat.Allows(TypeExpense))
	assert.True(t, cat.Allows(TypePurchase))
	assert.False(t, cat.Allows(TypeSale))

	_, err = NewCategory(uuid.New(), "Empty", nil)
	assert.Error(t, err)
}
