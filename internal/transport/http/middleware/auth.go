package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/security"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/usecase"
)

const apiKeyHeader = "x-api-key"

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, msg string) ErrorResponse {
	return ErrorResponse{
		Message: msg,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth accepts either a valid bearer session token or the configured
// static API key header. A matching API key bypasses claim extraction; the
// downstream handlers then see no user identity in the context.
func RequireAuth(authService *usecase.AuthService, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(apiKeyHeader); key != "" && apiKey != "" {
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "No se proporcionó token de autenticación"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "No se proporcionó token de autenticación"))
			return
		}

		claims, err := authService.ParseSession(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, security.ErrTokenExpired) || errors.Is(err, security.ErrTokenInvalid) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "Token inválido o expirado"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				newErrorResponse(c, "authentication failed"))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set("claims", claims)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = claims.UserID
		}

		c.Next()
	}
}
