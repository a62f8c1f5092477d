package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// EntryRow is one job-entry report as a parquet row. Absent quantities are
// null columns; amounts are rounded to cents.
type EntryRow struct {
	ID         string `parquet:"id,snappy"`
	WorkerID   string `parquet:"worker_id,snappy"`
	WorkerName string `parquet:"worker_name,snappy"`
	GroupName  string `parquet:"group_name,snappy"`
	JobID      string `parquet:"job_id,snappy"`
	JobName    string `parquet:"job_name,snappy"`
	Date       string `parquet:"date,snappy"`

	HoursTaken            *float64 `parquet:"hours_taken,optional,snappy"`
	ItemsCompleted        *float64 `parquet:"items_completed,optional,snappy"`
	ExpectedHours         *float64 `parquet:"expected_hours,optional,snappy"`
	ExpectedItemsPerHour  *float64 `parquet:"expected_items_per_hour,optional,snappy"`
	ProductiveHours       *float64 `parquet:"productive_hours,optional,snappy"`
	ExtraHours            *float64 `parquet:"extra_hours,optional,snappy"`
	UnderperformanceHours *float64 `parquet:"underperformance_hours,optional,snappy"`
	ProductiveItems       *float64 `parquet:"productive_items,optional,snappy"`
	ExtraItems            *float64 `parquet:"extra_items,optional,snappy"`
	IncentiveAmount       *float64 `parquet:"incentive_amount,optional,snappy"`
	PenaltyAmount         *float64 `parquet:"penalty_amount,optional,snappy"`
	TotalAmount           *float64 `parquet:"total_amount,optional,snappy"`

	IsPostLunch bool       `parquet:"is_post_lunch,snappy"`
	Remarks     string     `parquet:"remarks,snappy"`
	CreatedAt   *time.Time `parquet:"created_at,optional,snappy"`
}

// EntryRows converts reports to parquet rows, keeping their order.
func EntryRows(entries []generic.JobEntryReport) []EntryRow {
	rows := make([]EntryRow, len(entries))
	for i, e := range entries {
		rows[i] = EntryRow{
			ID:                    string(e.ID),
			WorkerID:              string(e.WorkerID),
			WorkerName:            generic.LabelOrUnknown(e.WorkerName),
			GroupName:             generic.LabelOrUnknown(e.GroupName),
			JobID:                 string(e.JobID),
			JobName:               generic.LabelOrUnknown(e.JobName),
			Date:                  e.Date,
			HoursTaken:            generic.ToFloatPtr(e.HoursTaken),
			ItemsCompleted:        generic.ToFloatPtr(e.ItemsCompleted),
			ExpectedHours:         generic.ToFloatPtr(e.ExpectedHours),
			ExpectedItemsPerHour:  generic.ToFloatPtr(e.ExpectedItemsPerHour),
			ProductiveHours:       generic.ToFloatPtr(e.ProductiveHours),
			ExtraHours:            generic.ToFloatPtr(e.ExtraHours),
			UnderperformanceHours: generic.ToFloatPtr(e.UnderperformanceHours),
			ProductiveItems:       generic.ToFloatPtr(e.ProductiveItems),
			ExtraItems:            generic.ToFloatPtr(e.ExtraItems),
			IncentiveAmount:       cents(e.IncentiveAmount),
			PenaltyAmount:         cents(e.PenaltyAmount),
			TotalAmount:           cents(e.TotalAmount),
			IsPostLunch:           e.IsPostLunch,
			Remarks:               e.Remarks,
		}
		if !e.CreatedAt.IsZero() {
			created := e.CreatedAt.UTC()
			rows[i].CreatedAt = &created
		}
	}
	return rows
}

func cents(v decimal.NullDecimal) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Decimal.Round(2).InexactFloat64()
	return &f
}

// WriteEntries writes reports as a parquet stream.
func WriteEntries(w io.Writer, entries []generic.JobEntryReport) error {
	writer := parquet.NewGenericWriter[EntryRow](w)
	if _, err := writer.Write(EntryRows(entries)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write entries to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteEntriesFile writes reports to a parquet file at outputPath.
func WriteEntriesFile(outputPath string, entries []generic.JobEntryReport) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteEntries(file, entries); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
