package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/go-calendar/internal/errs"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/labstack/echo/v4"
)

type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// writeUnauthorized answers the Clerk failure callback, which runs outside
// echo and cannot reach GlobalErrorHandler.
func (auth *AuthMiddleware) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
		auth.server.Logger.Error().
			Err(err).
			Str("function", "RequireAuth").
			Dur("duration", time.Since(start)).
			Msg("failed to write JSON response")
		return
	}

	auth.server.Logger.Warn().
		Str("function", "RequireAuth").
		Str("path", r.URL.Path).
		Str("request_id", r.Header.Get(RequestIDHeader)).
		Msg("rejected request without a valid session token")
}

// RequireAuth verifies the bearer token with Clerk and stores the session
// subject and organization role in the echo context.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.writeUnauthorized)),
		),
	)(func(c echo.Context) error {
		claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
		if !ok {
			GetLogger(c).Error().
				Str("function", "RequireAuth").
				Msg("could not get session claims from context")

			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserRoleKey, claims.ActiveOrganizationRole)
		c.Set("permissions", claims.Claims.ActiveOrganizationPermissions)

		// Auth runs after EnhanceContext, so the request logger learns the
		// user here.
		userLogger := GetLogger(c).With().Str("user_id", claims.Subject).Logger()
		c.Set(LoggerKey, &userLogger)
		c.SetRequest(c.Request().WithContext(userLogger.WithContext(c.Request().Context())))

		userLogger.Debug().
			Str("function", "RequireAuth").
			Msg("user authenticated successfully")

		return next(c)
	})
}
