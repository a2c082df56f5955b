package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/priceworth/storefront-api/internal/core/ports"
)

// AnalyticsHandler serves the admin dashboard aggregations.
type AnalyticsHandler struct {
	analytics ports.AnalyticsService
}

func NewAnalyticsHandler(analytics ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// ProductViews handles GET /v1/admin/analytics/products — view counts
// per product, most viewed first.
//
// @Summary      Product view counts
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.ProductViewStat
// @Router       /v1/admin/analytics/products [get]
func (h *AnalyticsHandler) ProductViews(c echo.Context) error {
	stats, err := h.analytics.ProductViewStats(c.Request().Context())
	if err != nil {
		return err
	}
	if stats == nil {
		stats = []ports.ProductViewStat{}
	}
	return c.JSON(http.StatusOK, stats)
}

// Roles handles GET /v1/admin/analytics/roles — login counts per role,
// zero-filled.
//
// @Summary      Login counts per role
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.RoleStat
// @Router       /v1/admin/analytics/roles [get]
func (h *AnalyticsHandler) Roles(c echo.Context) error {
	stats, err := h.analytics.RoleStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Sales handles GET /v1/admin/analytics/sales — transaction totals per
// calendar day, oldest first.
//
// @Summary      Daily sales totals
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  ports.DailySalesStat
// @Router       /v1/admin/analytics/sales [get]
func (h *AnalyticsHandler) Sales(c echo.Context) error {
	stats, err := h.analytics.DailySales(c.Request().Context())
	if err != nil {
		return err
	}
	if stats == nil {
		stats = []ports.DailySalesStat{}
	}
	return c.JSON(http.StatusOK, stats)
}
