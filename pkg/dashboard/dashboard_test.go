package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"edificio/models"
)

var now = time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)

func payment(day int, monthOffset int, amount float64, status models.PaymentStatus) models.Payment {
	return models.Payment{
		Amount: amount,
		Date:   time.Date(2026, time.Month(4+monthOffset), day, 12, 0, 0, 0, time.UTC),
		Status: status,
	}
}

func expense(day int, monthOffset int, amount float64, cat models.ExpenseCategory, status models.ExpenseStatus) models.Expense {
	return models.Expense{
		Amount:   amount,
		Date:     time.Date(2026, time.Month(4+monthOffset), day, 12, 0, 0, 0, time.UTC),
		Category: cat,
		Status:   status,
	}
}

func TestMonthOverMonthDeltas(t *testing.T) {
	payments := []models.Payment{
		payment(3, 0, 600, models.PagoCompletado),
		payment(10, 0, 400, models.PagoCompletado),
		payment(12, 0, 999, models.PagoPendiente), // pending income does not count
		payment(5, -1, 500, models.PagoCompletado),
	}
	expenses := []models.Expense{
		expense(4, 0, 120, models.GastoLimpieza, models.GastoPagado),
		expense(8, 0, 80, models.GastoReparaciones, models.GastoPendiente),
		expense(9, 0, 300, models.GastoLimpieza, models.GastoAnulado), // voided, excluded
		expense(20, -1, 100, models.GastoLimpieza, models.GastoPagado),
	}

	o := Build(payments, expenses, now)

	assert.InDelta(t, 1000, o.MonthIncome, 0.001)
	assert.InDelta(t, 500, o.PrevMonthIncome, 0.001)
	assert.InDelta(t, 100, o.IncomeDeltaPct, 0.001)

	assert.InDelta(t, 200, o.MonthExpenses, 0.001)
	assert.InDelta(t, 100, o.PrevMonthExpenses, 0.001)
	assert.InDelta(t, 100, o.ExpensesDeltaPct, 0.001)

	assert.Equal(t, 1, o.PendingPayments)
	assert.InDelta(t, 120, o.ExpensesByCategory["Limpieza"], 0.001)
	assert.InDelta(t, 80, o.ExpensesByCategory["Reparaciones"], 0.001)
}

func TestMonthEndStillSeesPreviousMonth(t *testing.T) {
	// May 31 has no counterpart day in April; naive date arithmetic lands the
	// "previous month" back in May and drops April entirely.
	endOfMay := time.Date(2026, 5, 31, 23, 0, 0, 0, time.UTC)
	payments := []models.Payment{{
		Amount: 500,
		Date:   time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC),
		Status: models.PagoCompletado,
	}}
	expenses := []models.Expense{{
		Amount:   200,
		Date:     time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC),
		Category: models.GastoLimpieza,
		Status:   models.GastoPagado,
	}}

	o := Build(payments, expenses, endOfMay)

	assert.Zero(t, o.MonthIncome)
	assert.InDelta(t, 500, o.PrevMonthIncome, 0.001)
	assert.InDelta(t, -100, o.IncomeDeltaPct, 0.001)
	assert.InDelta(t, 200, o.PrevMonthExpenses, 0.001)
	assert.InDelta(t, -100, o.ExpensesDeltaPct, 0.001)
}

func TestDecemberCountsAsPreviousMonthOfJanuary(t *testing.T) {
	january := time.Date(2027, 1, 10, 9, 0, 0, 0, time.UTC)
	payments := []models.Payment{{
		Amount: 850,
		Date:   time.Date(2026, 12, 28, 12, 0, 0, 0, time.UTC),
		Status: models.PagoCompletado,
	}}

	o := Build(payments, nil, january)

	assert.InDelta(t, 850, o.PrevMonthIncome, 0.001)
}

func TestDeltaIsZeroWhenPreviousMonthEmpty(t *testing.T) {
	payments := []models.Payment{payment(3, 0, 700, models.PagoCompletado)}

	o := Build(payments, nil, now)

	assert.InDelta(t, 700, o.MonthIncome, 0.001)
	assert.Zero(t, o.PrevMonthIncome)
	assert.Zero(t, o.IncomeDeltaPct, "division by zero must be guarded")
	assert.Zero(t, o.ExpensesDeltaPct)
}
