package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	WorkerIDKey   contextKey = "worker_id"
	WorkerNameKey contextKey = "worker_name"
	RoleKey       contextKey = "role"
)

// Roles supported by the registry. Admin implies every other role.
const (
	RoleAdmin        = "admin"
	RoleHealthWorker = "health_worker"
	RoleViewer       = "viewer"
)

// Claims carried in the access token. Subject is the worker's UUID.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

type JWTConfig struct {
	Secret   []byte
	Issuer   string
	TokenTTL time.Duration
}

// IssueToken mints a signed HS256 access token for a worker.
func IssueToken(cfg JWTConfig, workerID, name, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   workerID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
		},
		Name: name,
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}

// JWTMiddleware validates the Bearer token on every request and stores the
// worker identity on the request context. Tokens are HMAC-signed by this
// server; there is no external identity provider.
func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			opts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"HS256"}),
			}
			if cfg.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(cfg.Issuer))
			}

			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return cfg.Secret, nil
			}, opts...)

			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, WorkerIDKey, claims.Subject)
			ctx = context.WithValue(ctx, WorkerNameKey, claims.Name)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// DevAuthMiddleware is a permissive middleware for development that allows
// unauthenticated requests with admin defaults.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				ctx := c.Request().Context()
				ctx = context.WithValue(ctx, WorkerIDKey, "dev-worker")
				ctx = context.WithValue(ctx, WorkerNameKey, "Dev Worker")
				ctx = context.WithValue(ctx, RoleKey, RoleAdmin)
				c.SetRequest(c.Request().WithContext(ctx))
				return next(c)
			}
			// If token is provided, still pass it through untouched.
			return next(c)
		}
	}
}

func WorkerIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(WorkerIDKey).(string)
	return id
}

func WorkerNameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(WorkerNameKey).(string)
	return name
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}
