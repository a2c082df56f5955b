package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/priceworth/storefront-api/internal/core/domain"
)

// sessionRole returns the pricing role for the request. Anonymous or
// malformed sessions price at base (RoleNormal) rather than failing.
func sessionRole(c echo.Context) domain.Role {
	role, _ := c.Get("role").(string)
	return domain.ParseRole(role)
}

// ctxUser extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a non-empty user id proves the
// middleware ran.
func ctxUser(c echo.Context) (userID, userName string, role domain.Role, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	userName, _ = c.Get("user_name").(string)
	return userID, userName, sessionRole(c), nil
}
