package analytics

import (
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// COMPARISON - Today vs yesterday
// =============================================================================

// Change is one metric on two consecutive days.
type Change struct {
	Today         float64 `json:"today"`
	Yesterday     float64 `json:"yesterday"`
	ChangePercent float64 `json:"change_percent"`
}

func NewChange(today, yesterday float64) Change {
	return Change{Today: today, Yesterday: yesterday, ChangePercent: ChangePercent(today, yesterday)}
}

type ComparisonDashboard struct {
	Today     string `json:"today"`
	Yesterday string `json:"yesterday"`
	Entries   Change `json:"entries"`
	Earnings  Change `json:"earnings"`
	Present   Change `json:"present"`
}

func BuildComparison(cfg Config, entries []generic.JobEntryReport, attendance []generic.AttendanceRecord) ComparisonDashboard {
	today := cfg.today()
	yesterday := today.AddDays(-1)

	var entriesToday, entriesYesterday int
	earnToday, earnYesterday := decimal.Zero, decimal.Zero
	for _, e := range entries {
		d, ok := generic.ParseDate(e.Date)
		if !ok {
			continue
		}
		switch {
		case d.Equal(today):
			entriesToday++
			earnToday = earnToday.Add(generic.OrZero(e.TotalAmount))
		case d.Equal(yesterday):
			entriesYesterday++
			earnYesterday = earnYesterday.Add(generic.OrZero(e.TotalAmount))
		}
	}

	var presentToday, presentYesterday int
	for _, r := range attendance {
		if !r.Status.Attended() {
			continue
		}
		d, ok := generic.ParseDate(r.Date)
		if !ok {
			continue
		}
		switch {
		case d.Equal(today):
			presentToday++
		case d.Equal(yesterday):
			presentYesterday++
		}
	}

	return ComparisonDashboard{
		Today:     today.String(),
		Yesterday: yesterday.String(),
		Entries:   NewChange(float64(entriesToday), float64(entriesYesterday)),
		Earnings:  NewChange(toFloat(earnToday), toFloat(earnYesterday)),
		Present:   NewChange(float64(presentToday), float64(presentYesterday)),
	}
}
