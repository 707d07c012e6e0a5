package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validExpense() Expense {
	return Expense{
		Amount:      120,
		Date:        testDay,
		Category:    GastoLimpieza,
		Description: "limpieza portal",
		Method:      PagoEfectivo,
		Status:      GastoPagado,
	}
}

func TestExpenseAmountBoundary(t *testing.T) {
	e := validExpense()
	e.Amount = 0
	assert.Error(t, e.Validate())

	e.Amount = -5
	assert.Error(t, e.Validate())

	e.Amount = 0.01
	assert.NoError(t, e.Validate())
}

func TestExpenseDescriptionRequired(t *testing.T) {
	e := validExpense()
	e.Description = "   "
	assert.Error(t, e.Validate())
}

func TestExpenseCategoryClosedSet(t *testing.T) {
	e := validExpense()
	e.Category = "Fiestas"
	assert.Error(t, e.Validate())
}

func TestRecurringExpenseNeedsPeriod(t *testing.T) {
	e := validExpense()
	e.Recurring = true
	assert.Error(t, e.Validate())

	e.Period = RecurrenciaMensual
	assert.NoError(t, e.Validate())
}

func TestNonRecurringExpenseClearsPeriod(t *testing.T) {
	e := validExpense()
	e.Recurring = false
	e.Period = RecurrenciaAnual
	require.NoError(t, e.Validate())
	assert.Empty(t, e.Period)
}
