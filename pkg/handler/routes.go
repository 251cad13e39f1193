package handler

import (
	"github.com/gin-gonic/gin"
)

// InitRoutes wires one read-only route per business question. All /api
// routes accept the filter query params range, start, end, category and
// state.
func InitRoutes(r *gin.Engine, api *API) {
	r.GET("/healthz", api.HealthHandler)
	r.GET("/api/overview", api.OverviewHandler)
	r.GET("/api/sales", api.SalesHandler)
	r.GET("/api/rfm", api.RFMHandler)
	r.GET("/api/payments", api.PaymentsHandler)
	r.GET("/api/delivery", api.DeliveryHandler)
	r.GET("/api/geography", api.GeographyHandler)
	r.GET("/api/reviews", api.ReviewsHandler)
}
