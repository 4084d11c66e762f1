package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"math"

	"golang.org/x/text/message"

	"airquality-dashboard/internal/analysis"
	"airquality-dashboard/internal/dataset"
	"airquality-dashboard/internal/modules/airquality/service"
)

//go:embed templates
var viewsFS embed.FS

var dashboardTmpl *template.Template

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	dashboardTmpl, err = template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded dashboard templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// ReportData is the view model of the report partial.
type ReportData struct {
	Lang   string
	Start  string
	End    string
	Report service.Report

	DailyChart   Chart
	MonthlyChart Chart

	printer *message.Printer
}

// DashboardData is the view model of the full page.
type DashboardData struct {
	*ReportData
	Min       string
	Max       string
	Languages []string
}

// NewReportData prepares report for display in lang. Charts are rendered
// here so that templates only place markup.
func NewReportData(report service.Report, lang string) *ReportData {
	lang = ResolveLang(lang, "")
	d := &ReportData{
		Lang:    lang,
		Report:  report,
		printer: printerFor(lang),
	}
	if !report.Range.Start.IsZero() {
		d.Start = report.Range.Start.Format(dataset.DateLayout)
		d.End = report.Range.End.Format(dataset.DateLayout)
	}
	d.DailyChart = DailyChart(report.Daily, chartLabels{
		Title:  d.T(msgDaily),
		XName:  d.T(msgDate),
		YName:  d.T(msgUnit),
		Series: d.T(msgDaily),
	})
	d.MonthlyChart = MonthlyChart(report.Monthly, chartLabels{
		Title: d.T(msgMonthlyChartTitle),
		XName: d.T(msgMonth),
		YName: d.T(msgUnit),
	})
	return d
}

// NewDashboardData wraps a report with the dataset bounds for the date inputs.
func NewDashboardData(report service.Report, lang string) *DashboardData {
	d := &DashboardData{ReportData: NewReportData(report, lang), Languages: Languages()}
	if report.HasData {
		d.Min = report.Bounds.Start.Format(dataset.DateLayout)
		d.Max = report.Bounds.End.Format(dataset.DateLayout)
	}
	return d
}

// T translates a message key, formatting args with the locale printer.
func (d *ReportData) T(key string, args ...any) string {
	return d.printer.Sprintf(key, args...)
}

// Number formats v with two decimals, or n/a when missing.
func (d *ReportData) Number(v *float64) string {
	if v == nil {
		return d.T(msgNotAvailable)
	}
	return d.printer.Sprintf("%.2f", *v)
}

func (d *ReportData) Int(n int) string {
	return d.printer.Sprintf("%d", n)
}

func (d *ReportData) PeakDay() string {
	if d.Report.Summary.Peak == nil {
		return d.T(msgNotAvailable)
	}
	p := d.Report.Summary.Peak
	return p.Date.Format(dataset.DateLayout) + " (" + d.Number(p.Mean) + ")"
}

// CorrelationText states r to two decimals, or why it is undefined.
func (d *ReportData) CorrelationText() string {
	c := d.Report.Correlation
	if c.Defined {
		r := math.Round(c.R*100) / 100
		if r == 0 {
			r = 0 // drop the sign of -0
		}
		return d.T(msgCorrelation, d.printer.Sprintf("%.2f", r))
	}
	reason := d.T(msgFewPairs)
	if errors.Is(c.Reason, analysis.ErrZeroVariance) {
		reason = d.T(msgConstant)
	}
	return d.T(msgCorrelation, d.T(msgUndefined, reason))
}

// MonthlyNote warns that month groups span several years, or is empty.
func (d *ReportData) MonthlyNote() string {
	years := 0
	for _, m := range d.Report.Monthly {
		years = max(years, m.Years)
	}
	if years < 2 {
		return ""
	}
	return d.T(msgMonthlyYears, years)
}

func (d *ReportData) Conclusions() []string {
	return []string{d.T(msgConclusion1), d.T(msgConclusion2), d.T(msgConclusion3)}
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderReportPartial executes only the report partial into w.
// Use for HTMX fragment refresh.
func RenderReportPartial(w io.Writer, data *ReportData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "partials/report.html", data)
}
