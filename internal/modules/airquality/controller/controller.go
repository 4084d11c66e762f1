package controller

import (
	"context"
	"net/http"
	"time"

	"airquality-dashboard/internal/dataset"
	"airquality-dashboard/internal/modules/airquality/service"
)

// reporter is the part of service.Service the handlers need.
type reporter interface {
	Bounds(ctx context.Context) (dataset.DateRange, error)
	Report(ctx context.Context, requested *dataset.DateRange) (service.Report, error)
}

type AirQualityController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type airQualityControllerImpl struct {
	service reporter
	loc     *time.Location
	lang    string
}

// NewAirQualityController serves reports from svc. Query dates are read in
// loc; lang is the default dashboard language.
func NewAirQualityController(svc reporter, loc *time.Location, lang string) AirQualityController {
	if loc == nil {
		loc = time.UTC
	}
	return &airQualityControllerImpl{service: svc, loc: loc, lang: lang}
}

func (c *airQualityControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleDashboard)
	mux.HandleFunc("GET /partials/report", c.handleReportPartial)
	mux.HandleFunc("GET /export/daily.csv", c.handleDailyCSV)
	mux.HandleFunc("GET /export/report.xlsx", c.handleWorkbook)
}
