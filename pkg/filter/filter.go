package filter

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortDateDesc   SortKey = "date_desc"
	SortDateAsc    SortKey = "date_asc"
	SortAmountDesc SortKey = "amount_desc"
	SortAmountAsc  SortKey = "amount_asc"
	SortCategory   SortKey = "category"
	SortName       SortKey = "name"
)

// Row is the flattened view of one entity that the pipeline operates on. Each
// handler maps its collection into rows; the pipeline never sees the entities
// themselves.
type Row struct {
	ID       int
	Date     time.Time
	Amount   float64
	Category string
	Status   string
	Name     string
	// Extra holds additional searchable text fields (descriptions, receipt
	// numbers, identifications...).
	Extra []string
}

// Criteria composes conjunctively; every field is optional. Range bounds are
// kept as raw strings: an unparseable bound is silently ignored instead of
// failing the pipeline, since criteria arrive straight from UI input.
type Criteria struct {
	Query     string
	Category  string
	Status    string
	DateFrom  string
	DateTo    string
	AmountMin string
	AmountMax string
	Sort      SortKey
}

// Summary holds the aggregate metrics recomputed on every pass.
type Summary struct {
	Count            int                `json:"count"`
	Total            float64            `json:"total"`
	CountByStatus    map[string]int     `json:"count_by_status"`
	AmountByStatus   map[string]float64 `json:"amount_by_status"`
	AmountByCategory map[string]float64 `json:"amount_by_category"`
	DominantCategory string             `json:"dominant_category"`
}

type Result struct {
	Rows    []Row
	Summary Summary
}

// Apply filters, sorts and aggregates rows according to c. It is a pure
// synchronous transformation; callers invoke it on every criteria change.
func Apply(rows []Row, c Criteria) Result {
	query := strings.ToLower(strings.TrimSpace(c.Query))
	dateFrom, hasFrom := parseDate(c.DateFrom)
	dateTo, hasTo := parseDate(c.DateTo)
	amountMin, hasMin := parseAmount(c.AmountMin)
	amountMax, hasMax := parseAmount(c.AmountMax)

	kept := make([]Row, 0, len(rows))
	for _, r := range rows {
		if query != "" && !r.matches(query) {
			continue
		}
		if !isAny(c.Category) && !strings.EqualFold(r.Category, c.Category) {
			continue
		}
		if !isAny(c.Status) && !strings.EqualFold(r.Status, c.Status) {
			continue
		}
		if hasFrom && r.Date.Before(startOfDay(dateFrom)) {
			continue
		}
		if hasTo && r.Date.After(endOfDay(dateTo)) {
			continue
		}
		if hasMin && r.Amount < amountMin {
			continue
		}
		if hasMax && r.Amount > amountMax {
			continue
		}
		kept = append(kept, r)
	}

	sortRows(kept, c.Sort)
	return Result{Rows: kept, Summary: summarize(kept)}
}

func (r Row) matches(query string) bool {
	fields := []string{
		r.Name,
		r.Category,
		r.Status,
		strconv.FormatFloat(r.Amount, 'f', -1, 64),
		strconv.FormatFloat(r.Amount, 'f', 2, 64),
	}
	fields = append(fields, r.Extra...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func sortRows(rows []Row, key SortKey) {
	less := func(i, j int) bool { return rows[i].Date.After(rows[j].Date) }
	switch key {
	case SortDateAsc:
		less = func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) }
	case SortAmountDesc:
		less = func(i, j int) bool { return rows[i].Amount > rows[j].Amount }
	case SortAmountAsc:
		less = func(i, j int) bool { return rows[i].Amount < rows[j].Amount }
	case SortCategory:
		less = func(i, j int) bool { return rows[i].Category < rows[j].Category }
	case SortName:
		less = func(i, j int) bool { return rows[i].Name < rows[j].Name }
	}
	sort.SliceStable(rows, less)
}

func summarize(rows []Row) Summary {
	s := Summary{
		Count:            len(rows),
		CountByStatus:    map[string]int{},
		AmountByStatus:   map[string]float64{},
		AmountByCategory: map[string]float64{},
	}
	for _, r := range rows {
		s.Total += r.Amount
		s.CountByStatus[r.Status]++
		s.AmountByStatus[r.Status] += r.Amount
		s.AmountByCategory[r.Category] += r.Amount
	}
	for cat, total := range s.AmountByCategory {
		best, ok := s.AmountByCategory[s.DominantCategory]
		if !ok || total > best || (total == best && cat < s.DominantCategory) {
			s.DominantCategory = cat
		}
	}
	return s
}

// isAny reports whether v is the "no filter" sentinel.
func isAny(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "todas", "todos":
		return true
	}
	return false
}

var dateFormats = []string{"2006-01-02", "02/01/2006", time.RFC3339}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
