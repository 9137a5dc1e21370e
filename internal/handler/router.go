package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the API endpoints onto the Gin engine. The export
// handler is optional; passing nil leaves report endpoints unregistered.
func RegisterRoutes(r *gin.Engine, prefix string, funding *FundingHandler, exports *ExportHandler, metrics *MetricsHandler) {
	api := r.Group(prefix)

	api.POST("/users", funding.Register)
	api.GET("/users", funding.Users)

	api.POST("/requests", funding.Submit)
	api.GET("/requests/pending", funding.Pending)
	api.GET("/requests/:id", funding.GetRequest)
	api.POST("/requests/:id/decision", funding.Decide)

	api.POST("/reviews/next", funding.ReviewNext)
	api.POST("/donations", funding.Donate)
	api.GET("/state", funding.Overview)

	if exports != nil {
		api.POST("/exports", exports.Create)
		api.GET("/exports/:filename", exports.Download)
	}

	r.GET("/metrics", metrics.Prometheus)
	r.GET("/health", metrics.Health)
	r.GET("/ready", metrics.Ready)
}
