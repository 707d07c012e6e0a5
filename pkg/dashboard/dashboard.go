package dashboard

import (
	"time"

	"edificio/models"
)

// Overview is the dashboard payload: current month against the previous one,
// plus a category breakdown of this month's spending.
type Overview struct {
	MonthIncome        float64            `json:"month_income"`
	PrevMonthIncome    float64            `json:"prev_month_income"`
	IncomeDeltaPct     float64            `json:"income_delta_pct"`
	MonthExpenses      float64            `json:"month_expenses"`
	PrevMonthExpenses  float64            `json:"prev_month_expenses"`
	ExpensesDeltaPct   float64            `json:"expenses_delta_pct"`
	PendingPayments    int                `json:"pending_payments"`
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`
}

// Build computes the period-over-period sums. Income counts completed payments;
// expenses count everything not voided.
func Build(payments []models.Payment, expenses []models.Expense, now time.Time) Overview {
	cur := monthKey(now)
	prev := cur - 1

	o := Overview{ExpensesByCategory: map[string]float64{}}
	for _, p := range payments {
		if p.Status == models.PagoPendiente {
			o.PendingPayments++
		}
		if p.Status != models.PagoCompletado {
			continue
		}
		switch monthKey(p.Date) {
		case cur:
			o.MonthIncome += p.Amount
		case prev:
			o.PrevMonthIncome += p.Amount
		}
	}
	for _, e := range expenses {
		if e.Status == models.GastoAnulado {
			continue
		}
		switch monthKey(e.Date) {
		case cur:
			o.MonthExpenses += e.Amount
			o.ExpensesByCategory[string(e.Category)] += e.Amount
		case prev:
			o.PrevMonthExpenses += e.Amount
		}
	}
	o.IncomeDeltaPct = deltaPct(o.MonthIncome, o.PrevMonthIncome)
	o.ExpensesDeltaPct = deltaPct(o.MonthExpenses, o.PrevMonthExpenses)
	return o
}

// deltaPct guards against a prior period with no data: the delta is reported as
// zero instead of dividing by zero.
func deltaPct(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// monthKey numbers months consecutively so that month arithmetic never goes
// through day normalization (May 31 minus one month must mean April, not an
// AddDate-normalized May 1).
func monthKey(t time.Time) int {
	t = t.UTC()
	return t.Year()*12 + int(t.Month()) - 1
}
