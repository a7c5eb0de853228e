package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/clothing_shop/pkg/authclient"
	jwthelp "github.com/Skotchmaster/clothing_shop/pkg/jwt"
	"github.com/Skotchmaster/clothing_shop/pkg/logging"
	"github.com/Skotchmaster/clothing_shop/pkg/tokens"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

type AutoRefreshMiddleware struct {
	JWTSecret  []byte
	AuthClient *authclient.Client
}

func NewAutoRefreshMiddleware(secret []byte, authClient *authclient.Client) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret:  secret,
		AuthClient: authClient,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireCustomer(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, requireRole(tokens.RoleCustomer))
}

func (m *AutoRefreshMiddleware) RequireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, requireRole(tokens.RoleOwner))
}

func requireRole(role tokens.Role) ValidatorFunc {
	return func(claims *tokens.AccessClaims) error {
		if claims.Role != role {
			return echo.NewHTTPError(http.StatusForbidden, string(role)+" access required")
		}
		return nil
	}
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

		accessCookie, err := c.Cookie("accessToken")
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err == nil {
			if validator != nil {
				if validationErr := validator(claims); validationErr != nil {
					l.Warn("auth_forbidden", "status", 403, "role", claims.Role)
					return validationErr
				}
			}

			setUserContext(c, claims)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) || m.AuthClient == nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie("refreshToken")
		if rErr != nil || refreshCookie.Value == "" {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}

		pair, refErr := m.AuthClient.Refresh(c.Request().Context(), refreshCookie.Value, accessCookie.Value)
		if refErr != nil {
			if errors.Is(refErr, authclient.ErrRejected) {
				l.Warn("auth_refresh_failed", "status", 401, "reason", "refresh rejected", "error", refErr)
			} else {
				l.Error("auth_refresh_failed", "status", 401, "reason", "auth service unavailable", "error", refErr)
			}
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
		}

		newClaims, pErr := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
		if pErr != nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
		}

		c.SetCookie(jwthelp.CreateCookie("accessToken", pair.AccessToken, "/", pair.AccessExpiry()))
		c.SetCookie(jwthelp.CreateCookie("refreshToken", pair.RefreshToken, "/", pair.RefreshExpiry()))

		if validator != nil {
			if validationErr := validator(newClaims); validationErr != nil {
				return validationErr
			}
		}

		setUserContext(c, newClaims)
		return next(c)
	}
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie("accessToken", "/"))
	c.SetCookie(jwthelp.DeleteCookie("refreshToken", "/"))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextRole, claims.Role)
}
