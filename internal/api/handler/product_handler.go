package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

// ProductHandler handles catalog browsing. Prices in every response are
// derived for the caller's session role.
type ProductHandler struct {
	catalog   ports.CatalogService
	analytics ports.AnalyticsRecorder
}

func NewProductHandler(catalog ports.CatalogService, analytics ports.AnalyticsRecorder) *ProductHandler {
	return &ProductHandler{catalog: catalog, analytics: analytics}
}

// List handles GET /v1/products.
//
// @Summary      List products priced for the caller's role
// @Tags         products
// @Produce      json
// @Param        search    query     string  false  "Case-insensitive substring match on name or description"
// @Param        category  query     string  false  "Exact category, or 'all'"
// @Success      200       {object}  listProductsResponse
// @Failure      500       {object}  errorResponse
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context(), ports.ListProductsInput{
		Role:     sessionRole(c),
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return err
	}

	data := make([]productResponse, len(products))
	for i, p := range products {
		data[i] = toProductResponse(p)
	}
	return c.JSON(http.StatusOK, listProductsResponse{Data: data, Total: len(data)})
}

// Get handles GET /v1/products/:id. Authenticated views feed the
// analytics sink fire-and-forget.
//
// @Summary      Get a product priced for the caller's role
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.catalog.GetProduct(c.Request().Context(), c.Param("id"), sessionRole(c))
	if err != nil {
		return err
	}

	if userID, ok := c.Get("user_id").(string); ok && userID != "" {
		h.analytics.Record(ports.AnalyticsEvent{
			Kind:      ports.EventProductView,
			Timestamp: time.Now().UTC(),
			ProductView: &ports.ProductViewInput{
				ProductID:   product.ID,
				ProductName: product.Name,
				UserID:      userID,
			},
		})
	}

	return c.JSON(http.StatusOK, toProductResponse(*product))
}

// Categories handles GET /v1/categories.
//
// @Summary      List the distinct catalog categories
// @Tags         products
// @Produce      json
// @Success      200  {object}  categoriesResponse
// @Router       /v1/categories [get]
func (h *ProductHandler) Categories(c echo.Context) error {
	categories, err := h.catalog.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(http.StatusOK, categoriesResponse{Categories: categories})
}

func toProductResponse(p domain.PricedProduct) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
		Category:    p.Category,
	}
}
