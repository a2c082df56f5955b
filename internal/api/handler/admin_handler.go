package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
	"github.com/priceworth/storefront-api/internal/importer"
)

// AdminHandler handles catalog management and the admin dashboard
// listings. All routes are behind RBAC(admin).
type AdminHandler struct {
	catalog ports.CatalogService
	auth    ports.AuthService
}

func NewAdminHandler(catalog ports.CatalogService, auth ports.AuthService) *AdminHandler {
	return &AdminHandler{catalog: catalog, auth: auth}
}

// Import handles POST /v1/admin/products/import — replaces the catalog
// from an uploaded CSV. Malformed rows are dropped row by row; the
// response warns when nothing survived a partially bad file.
//
// @Summary      Replace the catalog from a CSV upload
// @Tags         admin
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV with header id,name,description,basePrice,stock,image,category"
// @Success      200   {object}  importResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/products/import [post]
func (h *AdminHandler) Import(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing csv file")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable csv file")
	}
	defer f.Close()

	parsed, err := importer.ParseCSV(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.catalog.ReplaceCatalog(c.Request().Context(), parsed.Rows)
	if err != nil {
		return err
	}

	resp := importResponse{
		Accepted: result.Accepted,
		Dropped:  result.Dropped + parsed.Skipped,
	}
	if resp.Accepted == 0 {
		resp.Warning = "no valid records"
	}
	return c.JSON(http.StatusOK, resp)
}

// Update handles PATCH /v1/admin/products/:id.
//
// @Summary      Update product fields
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product id"
// @Param        body  body      updateProductRequest  true  "Fields to merge"
// @Success      200   {object}  productResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/products/{id} [patch]
func (h *AdminHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	id := c.Param("id")
	if err := h.catalog.UpdateProduct(c.Request().Context(), id, ports.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Stock:       req.Stock,
		Image:       req.Image,
		Category:    req.Category,
	}); err != nil {
		return err
	}

	// Return the admin's own view of the updated record.
	product, err := h.catalog.GetProduct(c.Request().Context(), id, domain.RoleAdmin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(*product))
}

// Delete handles DELETE /v1/admin/products/:id. Idempotent.
//
// @Summary      Delete a product
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Product id"
// @Success      204
// @Router       /v1/admin/products/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	if err := h.catalog.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers handles GET /v1/admin/users.
//
// @Summary      List all user accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.User
// @Router       /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.auth.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
