package views

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"airquality-dashboard/internal/analysis"
	"airquality-dashboard/internal/dataset"
	"airquality-dashboard/internal/modules/airquality/service"
)

const (
	dailySheet   = "Daily"
	monthlySheet = "Monthly"
	summarySheet = "Summary"
)

// DailyFrame tabulates daily aggregates. Missing means are empty cells.
func DailyFrame(daily []analysis.DailyAggregate) dataframe.DataFrame {
	dates := make([]string, len(daily))
	means := make([]string, len(daily))
	rows := make([]int, len(daily))
	counts := make([]int, len(daily))
	for i, d := range daily {
		dates[i] = d.Date.Format(dataset.DateLayout)
		means[i] = formatOptional(d.Mean)
		rows[i] = d.Rows
		counts[i] = d.Count
	}
	return dataframe.New(
		series.New(dates, series.String, "date"),
		series.New(means, series.String, "average_pm25"),
		series.New(rows, series.Int, "readings"),
		series.New(counts, series.Int, "pm25_readings"),
	)
}

// MonthlyFrame tabulates monthly aggregates.
func MonthlyFrame(monthly []analysis.MonthlyAggregate) dataframe.DataFrame {
	months := make([]int, len(monthly))
	means := make([]string, len(monthly))
	counts := make([]int, len(monthly))
	years := make([]int, len(monthly))
	for i, m := range monthly {
		months[i] = m.Month
		means[i] = formatOptional(m.Mean)
		counts[i] = m.Count
		years[i] = m.Years
	}
	return dataframe.New(
		series.New(months, series.Int, "month"),
		series.New(means, series.String, "average_pm25"),
		series.New(counts, series.Int, "pm25_readings"),
		series.New(years, series.Int, "years"),
	)
}

// WriteDailyCSV writes the daily table with a header row.
func WriteDailyCSV(w io.Writer, daily []analysis.DailyAggregate) error {
	if len(daily) == 0 {
		// Header only; there is nothing to tabulate.
		_, err := io.WriteString(w, "date,average_pm25,readings,pm25_readings\n")
		return err
	}
	if err := DailyFrame(daily).WriteCSV(w); err != nil {
		return fmt.Errorf("write daily csv: %w", err)
	}
	return nil
}

// WriteWorkbook writes Daily, Monthly and Summary sheets as XLSX.
func WriteWorkbook(w io.Writer, report service.Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := f.SetSheetName("Sheet1", dailySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeFrame(f, dailySheet, DailyFrame(report.Daily), []string{"date", "average_pm25", "readings", "pm25_readings"}); err != nil {
		return err
	}

	if _, err := f.NewSheet(monthlySheet); err != nil {
		return fmt.Errorf("add sheet %s: %w", monthlySheet, err)
	}
	if err := writeFrame(f, monthlySheet, MonthlyFrame(report.Monthly), []string{"month", "average_pm25", "pm25_readings", "years"}); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add sheet %s: %w", summarySheet, err)
	}
	if err := writeSummary(f, report); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// writeFrame copies df into sheet: header in row 1, one row per record.
// Numeric-looking cells are stored as numbers.
func writeFrame(f *excelize.File, sheet string, df dataframe.DataFrame, header []string) error {
	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("%s header: %w", sheet, err)
		}
	}
	if df.Nrow() == 0 || df.Ncol() == 0 {
		return nil
	}

	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, colName := range df.Names() {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(df.Col(colName).Elem(rowIdx))); err != nil {
				return fmt.Errorf("%s %s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func writeSummary(f *excelize.File, report service.Report) error {
	corr := ""
	if report.Correlation.Defined {
		corr = strconv.FormatFloat(report.Correlation.R, 'f', 4, 64)
	}
	peak := ""
	if report.Summary.Peak != nil {
		peak = report.Summary.Peak.Date.Format(dataset.DateLayout)
	}
	rows := [][]any{
		{"metric", "value"},
		{"start", report.Range.Start.Format(dataset.DateLayout)},
		{"end", report.Range.End.Format(dataset.DateLayout)},
		{"readings", report.Readings},
		{"total_days", report.Summary.Days},
		{"days_with_data", report.Summary.ObservedDays},
		{"average_pm25", optionalCell(report.Summary.MeanPM25)},
		{"peak_day", peak},
		{"wind_pm25_correlation", corr},
		{"correlation_pairs", report.Correlation.Pairs},
	}
	if report.Empty() {
		rows[1][1], rows[2][1] = "", ""
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", summarySheet, i+1, err)
		}
	}
	return nil
}

func cellValue(e series.Element) any {
	if e.IsNA() {
		return ""
	}
	switch e.Type() {
	case series.Int:
		if n, err := e.Int(); err == nil {
			return n
		}
	case series.String:
		if v, err := strconv.ParseFloat(e.String(), 64); err == nil {
			return v
		}
	}
	return e.String()
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optionalCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
