package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/priceworth/storefront-api/internal/core/domain"
	"github.com/priceworth/storefront-api/internal/core/ports"
)

// CartHandler handles the authenticated user's cart. The priced product
// snapshot is captured here, at add-time, with the caller's current
// role — the ledger never re-derives it.
type CartHandler struct {
	cart    ports.CartService
	catalog ports.CatalogService
}

func NewCartHandler(cart ports.CartService, catalog ports.CatalogService) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog}
}

// Get handles GET /v1/cart.
//
// @Summary      Get the caller's cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	userID, _, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	cart, err := h.cart.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(cart))
}

// AddItem handles POST /v1/cart/items.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addCartItemRequest  true  "Product and quantity"
// @Success      200   {object}  cartResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, _, role, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.GetProduct(c.Request().Context(), req.ProductID, role)
	if err != nil {
		return err
	}

	cart, err := h.cart.Add(c.Request().Context(), userID, *product, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(cart))
}

// SetQuantity handles PUT /v1/cart/items/:product_id. Quantity zero
// removes the line.
//
// @Summary      Overwrite a line's quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  path      string              true  "Product id"
// @Param        body        body      setQuantityRequest  true  "New quantity (0 removes)"
// @Success      200         {object}  cartResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/cart/items/{product_id} [put]
func (h *CartHandler) SetQuantity(c echo.Context) error {
	userID, _, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req setQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	cart, err := h.cart.SetQuantity(c.Request().Context(), userID, c.Param("product_id"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(cart))
}

// RemoveItem handles DELETE /v1/cart/items/:product_id. Idempotent.
//
// @Summary      Remove a line from the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  path      string  true  "Product id"
// @Success      200         {object}  cartResponse
// @Router       /v1/cart/items/{product_id} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, _, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	cart, err := h.cart.Remove(c.Request().Context(), userID, c.Param("product_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(cart))
}

// Clear handles DELETE /v1/cart.
//
// @Summary      Empty the cart
// @Tags         cart
// @Security     BearerAuth
// @Success      204
// @Router       /v1/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	userID, _, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.cart.Clear(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout handles POST /v1/cart/checkout. A second submission while
// one is pending gets 409.
//
// @Summary      Check out the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  checkoutResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/cart/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	userID, userName, role, err := ctxUser(c)
	if err != nil {
		return err
	}

	result, err := h.cart.Checkout(c.Request().Context(), ports.CheckoutInput{
		UserID:   userID,
		UserName: userName,
		Role:     role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, checkoutResponse{
		TransactionID: result.TransactionID,
		Total:         result.Total,
		TotalItems:    result.TotalItems,
		CompletedAt:   result.CompletedAt,
	})
}

func toCartResponse(cart *domain.Cart) cartResponse {
	totals := cart.Totals()
	lines := make([]cartLineResponse, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = cartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.UnitPrice * float64(l.Quantity),
		}
	}
	return cartResponse{
		Lines:      lines,
		TotalItems: totals.TotalItems,
		TotalPrice: totals.TotalPrice,
	}
}
