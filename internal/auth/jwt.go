package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context key under which the middleware stores the authenticated user id.
const UserIDContextKey = "userID"

// JWTClaims represents the claims in our JWT token. Tokens are issued by
// the external gateway; this service only validates them.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Validator validates gateway-issued JWT tokens.
type Validator struct {
	secret []byte
}

// NewValidator creates a validator sharing the gateway's signing secret.
func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

// Parse validates a JWT token and returns the claims
func (v *Validator) Parse(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrInvalidKey
}

// Middleware authenticates owner-facing endpoints. It rejects requests
// without a valid user token and stores the user id on the echo context.
func (v *Validator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := v.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			if claims.Role != "user" || claims.UserID == "" {
				return echo.NewHTTPError(http.StatusForbidden, "user token required")
			}

			c.Set(UserIDContextKey, claims.UserID)
			return next(c)
		}
	}
}

// SignUserToken issues a user token with this validator's secret. The
// gateway owns issuance in production; this exists for tests and local
// development.
func (v *Validator) SignUserToken(userID string, ttl time.Duration) (string, error) {
	claims := &JWTClaims{
		UserID: userID,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
