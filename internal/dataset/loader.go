package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrNoReadings is returned when a file holds no row with a usable timestamp.
	ErrNoReadings = errors.New("dataset has no readings")
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")
)

// Values treated as missing in numeric and timestamp columns.
var nanValues = []string{"", "NA", "NaN", "nan", "null", "<nil>"}

// Timestamp layouts tried in order. Layouts without an offset are
// interpreted in LoadOptions.Location.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadOptions names the columns to read and the zone of naive timestamps.
type LoadOptions struct {
	TimeColumn string
	PM25Column string
	WindColumn string
	Location   *time.Location
}

// DefaultLoadOptions matches the cleaned air-quality export.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		TimeColumn: "datetime",
		PM25Column: "PM2.5",
		WindColumn: "WSPM",
		Location:   time.UTC,
	}
}

// LoadStats describes what the loader did with the rows of a file.
type LoadStats struct {
	Rows    int // data rows in the file
	Dropped int // rows dropped for a missing or unparseable timestamp
}

// LoadCSV reads readings from the CSV file at path.
func LoadCSV(path string, opts LoadOptions) ([]Reading, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	readings, stats, err := LoadCSVFromReader(f, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("load %s: %w", path, err)
	}
	return readings, stats, nil
}

// LoadCSVFromReader reads readings from CSV data with a header row. Rows
// whose timestamp is empty or cannot be parsed are dropped and counted;
// empty or non-numeric measurements become nil. The result is sorted by time.
func LoadCSVFromReader(r io.Reader, opts LoadOptions) ([]Reading, LoadStats, error) {
	opts = withDefaults(opts)

	// Spreadsheet exports often start with a UTF-8 BOM; it would stick to the first header.
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
		dataframe.WithTypes(map[string]series.Type{
			opts.PM25Column: series.Float,
			opts.WindColumn: series.Float,
		}),
	)
	if df.Err != nil {
		return nil, LoadStats{}, fmt.Errorf("read csv: %w", df.Err)
	}

	for _, col := range []string{opts.TimeColumn, opts.PM25Column, opts.WindColumn} {
		if !hasColumn(df, col) {
			return nil, LoadStats{}, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	times := df.Col(opts.TimeColumn).Records()
	pm25 := df.Col(opts.PM25Column).Float()
	wind := df.Col(opts.WindColumn).Float()

	stats := LoadStats{Rows: df.Nrow()}
	readings := make([]Reading, 0, len(times))
	for i, raw := range times {
		ts, ok := parseTimestamp(raw, opts.Location)
		if !ok {
			stats.Dropped++
			continue
		}
		readings = append(readings, Reading{
			Time:      ts,
			PM25:      present(pm25[i]),
			WindSpeed: present(wind[i]),
		})
	}
	if len(readings) == 0 {
		return nil, stats, ErrNoReadings
	}

	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Time.Before(readings[j].Time)
	})
	return readings, stats, nil
}

func withDefaults(opts LoadOptions) LoadOptions {
	def := DefaultLoadOptions()
	if opts.TimeColumn == "" {
		opts.TimeColumn = def.TimeColumn
	}
	if opts.PM25Column == "" {
		opts.PM25Column = def.PM25Column
	}
	if opts.WindColumn == "" {
		opts.WindColumn = def.WindColumn
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	return opts
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NaN" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

func present(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
