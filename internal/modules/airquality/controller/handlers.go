package controller

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"airquality-dashboard/internal/modules/airquality/service"
	"airquality-dashboard/internal/modules/airquality/views"
	"airquality-dashboard/internal/utils"
)

func (c *airQualityControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	report, ok := c.report(w, r, "dashboard")
	if !ok {
		return
	}

	data := views.NewDashboardData(report, c.langFor(r))
	var buf bytes.Buffer
	if err := views.RenderDashboard(&buf, data); err != nil {
		slog.Error("dashboard template render failed", "error", err, "request_id", utils.RequestID(r.Context()))
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	writeHTML(w, &buf, "dashboard")
}

func (c *airQualityControllerImpl) handleReportPartial(w http.ResponseWriter, r *http.Request) {
	report, ok := c.report(w, r, "report partial")
	if !ok {
		return
	}

	data := views.NewReportData(report, c.langFor(r))
	var buf bytes.Buffer
	if err := views.RenderReportPartial(&buf, data); err != nil {
		slog.Error("report partial render failed", "error", err, "request_id", utils.RequestID(r.Context()))
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	writeHTML(w, &buf, "report partial")
}

func (c *airQualityControllerImpl) handleDailyCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := c.report(w, r, "daily csv")
	if !ok {
		return
	}
	utils.WriteAttachment(w, "text/csv; charset=utf-8", exportName("pm25-daily", report, "csv"), func(out io.Writer) error {
		return views.WriteDailyCSV(out, report.Daily)
	})
}

func (c *airQualityControllerImpl) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	report, ok := c.report(w, r, "workbook")
	if !ok {
		return
	}
	const xlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	utils.WriteAttachment(w, xlsx, exportName("pm25-report", report, "xlsx"), func(out io.Writer) error {
		return views.WriteWorkbook(out, report)
	})
}

// report runs the request's range through the service and writes the error
// response itself when that fails.
func (c *airQualityControllerImpl) report(w http.ResponseWriter, r *http.Request, op string) (service.Report, bool) {
	ctx := r.Context()
	rng, err := c.requestedRange(ctx, r)
	if err != nil {
		if isBadRequest(err) {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return service.Report{}, false
		}
		slog.Error(op+": dataset bounds failed", "error", err, "request_id", utils.RequestID(ctx))
		utils.WriteError(w, http.StatusInternalServerError, "failed to load dataset")
		return service.Report{}, false
	}

	report, err := c.service.Report(ctx, rng)
	if err != nil {
		slog.Error(op+": report failed", "error", err, "request_id", utils.RequestID(ctx))
		utils.WriteError(w, http.StatusInternalServerError, "failed to build report")
		return service.Report{}, false
	}
	slog.Debug(op+": report built", "range", report.Range.String(), "readings", report.Readings, "request_id", utils.RequestID(ctx))
	return report, true
}

func (c *airQualityControllerImpl) langFor(r *http.Request) string {
	return views.ResolveLang(r.URL.Query().Get("lang"), c.lang)
}

func exportName(prefix string, report service.Report, ext string) string {
	if report.Range.Start.IsZero() {
		return prefix + "." + ext
	}
	return prefix + "_" + report.Range.Start.Format("20060102") + "-" + report.Range.End.Format("20060102") + "." + ext
}

func writeHTML(w http.ResponseWriter, buf *bytes.Buffer, op string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error(op+": write response failed", "error", err)
	}
}
