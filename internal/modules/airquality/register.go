package airquality

import (
	"net/http"
	"time"

	"airquality-dashboard/internal/modules/airquality/controller"
	"airquality-dashboard/internal/modules/airquality/service"
	"airquality-dashboard/internal/store"
)

func RegisterFeature(mux *http.ServeMux, readings store.ReadingStore, loc *time.Location, lang string) {
	airQualityService := service.NewService(readings)
	airQualityController := controller.NewAirQualityController(airQualityService, loc, lang)
	airQualityController.RegisterRoutes(mux)
}
