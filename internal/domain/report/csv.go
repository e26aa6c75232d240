package report

import (
	"encoding/csv"
	"io"
	"slices"
	"strconv"
	"time"
)

// WriteCSV renders a completed report as metric,value rows.
func WriteCSV(w io.Writer, r *Report) error {
	if r.Status != StatusCompleted || r.Data == nil {
		return ErrNotReady
	}
	if r.Format != FormatCSV {
		return ErrUnsupportedFormat
	}

	cw := csv.NewWriter(w)
	rows := [][]string{
		{"report", r.Type.Label()},
		{"title", r.Title},
		{"period", r.Period.Label()},
		{"start_date", r.StartDate.Format(time.DateOnly)},
		{"end_date", r.EndDate.Format(time.DateOnly)},
		{"metric", "value"},
	}
	rows = append(rows, summaryRows(r.Type, r.Data)...)

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func summaryRows(t Type, s *Summary) [][]string {
	i := func(v int64) string { return strconv.FormatInt(v, 10) }
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

	switch t {
	case TypePatients:
		return [][]string{
			{"total_patients", i(s.TotalPatients)},
			{"active_patients", i(s.ActivePatients)},
			{"new_patients", i(s.NewPatients)},
			{"discharged_patients", i(s.DischargedPatients)},
		}
	case TypeInventory:
		return [][]string{
			{"inventory_value", f(s.InventoryValue)},
			{"low_stock_items", i(s.LowStockItems)},
		}
	case TypeFinancial:
		return [][]string{
			{"total_revenue", f(s.TotalRevenue)},
			{"total_expenses", f(s.TotalExpenses)},
			{"inventory_value", f(s.InventoryValue)},
		}
	}

	statuses := make([]string, 0, len(s.Appointments))
	for k := range s.Appointments {
		statuses = append(statuses, k)
	}
	slices.Sort(statuses)

	rows := make([][]string, 0, len(statuses))
	for _, k := range statuses {
		rows = append(rows, []string{"appointments_" + k, i(s.Appointments[k])})
	}
	return rows
}
