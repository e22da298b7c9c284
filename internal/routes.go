package internal

import (
	"auroscope/internal/controllers"
	"auroscope/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, healthController *controllers.HealthController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/health", http.HandlerFunc(healthController.Health))
	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	routers.Post("/schedule/run", http.HandlerFunc(apiController.RunSchedule))
	return routers
}
