package server

import (
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	apiError "github.com/crimepatrol/backend/errors"
	"github.com/crimepatrol/backend/models"
	"github.com/crimepatrol/backend/server/response"
	"github.com/crimepatrol/backend/services/jwt"
	"github.com/gin-gonic/gin"
)

// Authorize checks the bearer token, rejects blacklisted tokens and puts
// the authenticated user on the context.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, []string{"missing access token"})
			return
		}

		if s.AuthRepository.TokenInBlacklist(accessToken) {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, []string{"token revoked"})
			return
		}

		claims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, []string{"invalid access token"})
			return
		}

		email, ok := claims["user_email"].(string)
		if !ok {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, []string{"invalid access token"})
			return
		}

		user, uerr := s.AuthRepository.FindUserByEmail(email)
		if uerr != nil {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, []string{"user not found"})
			return
		}
		if user.IsBlocked {
			respondAndAbort(c, "forbidden", http.StatusForbidden, nil, []string{"account is blocked"})
			return
		}

		c.Set("user", user)
		c.Set("access_token", accessToken)
		c.Next()
	}
}

// RequireRoles restricts a route to users whose role name is listed.
func (s *Server) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := userFromContext(c)
		if user == nil {
			respondAndAbort(c, "unauthorized", http.StatusUnauthorized, nil, []string{"authentication required"})
			return
		}

		for _, allowed := range roles {
			if user.Role.Name == allowed {
				c.Next()
				return
			}
		}
		respondAndAbort(c, "forbidden", http.StatusForbidden, nil, []string{"insufficient role"})
	}
}

func userFromContext(c *gin.Context) *models.User {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func respondAndAbort(c *gin.Context, message string, status int, data interface{}, errs []string) {
	response.JSON(c, message, status, data, errs)
	c.Abort()
}

// rateLimiter returns a middleware limiting each client IP to the given
// number of requests per window.
func rateLimiter(limit uint, window time.Duration) gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  window,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: apiError.ErrorHandler,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
