package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/access"
	"github.com/mamadbah2/flock/internal/domain/models"
)

const currentUserKey = "currentUser"

// Authenticate verifies the bearer token and loads the caller's profile. The
// token subject is the user id; the role always comes from the stored profile.
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &claims, func(token *jwt.Token) (any, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, errors.New("unexpected signing method")
			}
			return h.jwtSecret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 4*time.Second)
		defer cancel()

		user, err := findByID(ctx, h.store.Users, claims.Subject)
		if err != nil {
			h.logger.Warn("unable to load user profile", zap.String("user_id", claims.Subject), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user session"})
			return
		}
		user.Role = models.NormalizeRole(string(user.Role))

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireSection rejects callers whose role may not open section.
func (h *Handler) RequireSection(section access.Section) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if !access.IsAllowed(user.Role, section) {
			h.logger.Debug("section denied",
				zap.String("user_id", user.ID),
				zap.String("role", string(user.Role)),
				zap.String("section", string(section)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": access.DeniedMessage})
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts a route to administrators.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": access.DeniedMessage})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if user, ok := v.(models.User); ok {
			return user
		}
	}
	return models.User{}
}

// Me returns the caller's profile and menu.
func (h *Handler) Me(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"role":     user.Role,
		"sections": access.AllowedSections(user.Role),
	})
}

type navigateRequest struct {
	Section string `json:"section" binding:"required"`
}

// Navigate resolves a section change for the caller.
func (h *Handler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, access.Navigate(currentUser(c).Role, access.Section(req.Section)))
}
