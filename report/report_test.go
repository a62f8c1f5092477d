package report

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/generic"
)

func testConfig() analytics.Config {
	cfg := analytics.DefaultConfig()
	cfg.Clock = generic.NewFakeClock(time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
	return cfg
}

func testEntries() []generic.JobEntryReport {
	return []generic.JobEntryReport{
		{
			ID: "je-1", WorkerID: "w-1", WorkerName: "Ana", GroupName: "Line A", JobID: "job-sew", JobName: "Sewing",
			Date: "2025-03-10", HoursTaken: generic.SomeFloat(10), ExpectedHours: generic.SomeFloat(8),
			ProductiveHours: generic.SomeFloat(8), ExtraHours: generic.SomeFloat(2), UnderperformanceHours: generic.SomeFloat(0),
			IncentiveAmount: generic.SomeFloat(100), PenaltyAmount: generic.SomeFloat(0), TotalAmount: generic.SomeFloat(1100),
			CreatedAt: time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC),
		},
		{
			ID: "je-2", WorkerID: "w-2", JobID: "job-pack",
			Date: "2025-03-09", ItemsCompleted: generic.SomeFloat(40), TotalAmount: generic.SomeFloat(80.005),
			IsPostLunch: true, Remarks: "short batch",
		},
	}
}

// =============================================================================
// TABLES
// =============================================================================

func TestWriteDashboard_AttendanceWithAlerts(t *testing.T) {
	// GIVEN a day with 2 of 4 workers absent
	cfg := testConfig()
	workers := []generic.Worker{{ID: "w-1", Name: "Ana"}, {ID: "w-2", Name: "Ben"}, {ID: "w-3", Name: "Chen"}, {ID: "w-4", Name: "Dara"}}
	records := []generic.AttendanceRecord{
		{ID: "a1", WorkerID: "w-1", WorkerName: "Ana", Date: "2025-03-10", Status: generic.AttendancePresent},
		{ID: "a2", WorkerID: "w-2", WorkerName: "Ben", Date: "2025-03-10", Status: generic.AttendancePresent},
		{ID: "a3", WorkerID: "w-3", WorkerName: "Chen", Date: "2025-03-10", Status: generic.AttendanceAbsent},
		{ID: "a4", WorkerID: "w-4", WorkerName: "Dara", Date: "2025-03-10", Status: generic.AttendanceAbsent},
	}
	dashboard := analytics.BuildAttendance(cfg, workers, records)

	// WHEN it is rendered without colours
	var buf bytes.Buffer
	require.NoError(t, WriteDashboard(&buf, dashboard, Options{}))

	// THEN the summary, rankings and alert are printed
	out := buf.String()
	assert.Contains(t, out, "Attendance 2025-03-10")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Top attendance")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "high_absenteeism")
	assert.Contains(t, out, string(analytics.SeverityWarning))
}

func TestWriteDashboard_EveryDashboardRendersEmpty(t *testing.T) {
	cfg := testConfig()
	dashboards := []any{
		analytics.BuildAttendance(cfg, nil, nil),
		analytics.BuildLeave(cfg, nil, nil),
		analytics.BuildEarnings(cfg, nil),
		analytics.BuildCompletion(cfg, nil),
		analytics.BuildPerformance(cfg, analytics.PerformanceInput{}),
		analytics.BuildComparison(cfg, nil, nil),
	}

	for _, d := range dashboards {
		var buf bytes.Buffer
		assert.NoError(t, WriteDashboard(&buf, d, Options{UseColors: true}), "%T", d)
		assert.NotEmpty(t, buf.String(), "%T", d)
	}
}

func TestWriteDashboard_Earnings(t *testing.T) {
	dashboard := analytics.BuildEarnings(testConfig(), testEntries())

	var buf bytes.Buffer
	require.NoError(t, WriteDashboard(&buf, dashboard, Options{}))

	out := buf.String()
	assert.Contains(t, out, "1100.00")
	assert.Contains(t, out, "Sewing")
	assert.Contains(t, out, "Post-lunch")
}

func TestWriteDashboard_Unsupported(t *testing.T) {
	err := WriteDashboard(io.Discard, struct{}{}, Options{})
	assert.Error(t, err)
}

func TestSeverityLabel_PlainWithoutColors(t *testing.T) {
	assert.Equal(t, "critical", SeverityLabel(analytics.SeverityCritical, false))
	assert.Contains(t, SeverityLabel(analytics.SeverityWarning, true), "warning")
}

// =============================================================================
// PARQUET
// =============================================================================

func TestEntryRowStructTags(t *testing.T) {
	schema := parquet.SchemaOf(new(EntryRow))
	require.NotNil(t, schema)

	for _, col := range []string{"id", "worker_name", "date", "hours_taken", "items_completed", "total_amount", "created_at"} {
		_, ok := schema.Lookup(col)
		assert.True(t, ok, "column %s should exist", col)
	}
}

func TestEntryRows_KeepsAbsentAsNull(t *testing.T) {
	rows := EntryRows(testEntries())
	require.Len(t, rows, 2)

	assert.Equal(t, 10.0, *rows[0].HoursTaken)
	assert.Nil(t, rows[0].ItemsCompleted)
	assert.Nil(t, rows[1].HoursTaken)
	assert.Nil(t, rows[1].ExpectedHours)
	assert.Nil(t, rows[1].CreatedAt)
	assert.Equal(t, generic.UnknownLabel, rows[1].WorkerName)
	assert.Equal(t, 80.01, *rows[1].TotalAmount)
}

func TestWriteEntriesFile_RoundTrip(t *testing.T) {
	// GIVEN two job-entry reports
	outputPath := filepath.Join(t.TempDir(), "entries.parquet")
	entries := testEntries()

	// WHEN they are exported
	require.NoError(t, WriteEntriesFile(outputPath, entries))

	// THEN they read back with nulls intact
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[EntryRow](file)
	defer reader.Close()

	got := make([]EntryRow, reader.NumRows())
	n, err := reader.Read(got)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(entries), n)

	assert.Equal(t, "je-1", got[0].ID)
	require.NotNil(t, got[0].TotalAmount)
	assert.Equal(t, 1100.0, *got[0].TotalAmount)
	require.NotNil(t, got[0].CreatedAt)
	assert.WithinDuration(t, entries[0].CreatedAt, *got[0].CreatedAt, time.Microsecond)

	assert.Nil(t, got[1].HoursTaken)
	require.NotNil(t, got[1].ItemsCompleted)
	assert.Equal(t, 40.0, *got[1].ItemsCompleted)
	assert.True(t, got[1].IsPostLunch)
	assert.Equal(t, "short batch", got[1].Remarks)
}

func TestWriteEntriesFile_BadPath(t *testing.T) {
	err := WriteEntriesFile(filepath.Join(t.TempDir(), "missing", "entries.parquet"), nil)
	assert.Error(t, err)
}
