package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/service"
	"github.com/dmehra2102/prod-golang-projects/cuidarplus/pkg/auth"
	"github.com/gin-gonic/gin"
)

// Auth validates the bearer access token and stores the caller as a service.Actor.
func Auth(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := jwt.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "token has expired"
			}
			abort(c, http.StatusUnauthorized, msg)
			return
		}

		c.Set(actorKey, service.Actor{
			UserID:    claims.UserID,
			Role:      claims.Role,
			PatientID: claims.PatientID,
			IP:        c.ClientIP(),
			RequestID: RequestIDFrom(c),
		})
		c.Next()
	}
}

// ActorFrom returns the caller stored by Auth.
func ActorFrom(c *gin.Context) (service.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return service.Actor{}, false
	}
	actor, ok := v.(service.Actor)
	return actor, ok
}
