package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
)

var errSelfDelete = errors.New("users cannot delete their own account")

// roleCount is one bar of the role statistics.
type roleCount struct {
	Role  models.Role `json:"role"`
	Count int         `json:"count"`
}

// ListUsers serves the user list filtered by name or email search and role,
// along with per-role counts over every user.
func (h *Handler) ListUsers(c *gin.Context) {
	role := c.Query("role")
	if role != "" && role != "all" {
		if _, err := models.ParseRole(role); err != nil {
			badRequest(c, err)
			return
		}
	}

	users, err := h.store.Users.List(c.Request.Context(), repository.Query{}.Order("created_at", true))
	if err != nil {
		h.fail(c, err, "unable to load users")
		return
	}

	counts := make([]roleCount, 0, len(models.Roles))
	for _, r := range models.Roles {
		counts = append(counts, roleCount{Role: r})
	}
	term := strings.ToLower(strings.TrimSpace(c.Query("search")))
	filtered := make([]models.User, 0, len(users))
	for _, u := range users {
		u.Role = models.NormalizeRole(string(u.Role))
		for i := range counts {
			if counts[i].Role == u.Role {
				counts[i].Count++
			}
		}
		if role != "" && role != "all" && u.Role != models.NormalizeRole(role) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(u.FullName), term) &&
			!strings.Contains(strings.ToLower(u.Email), term) {
			continue
		}
		filtered = append(filtered, u)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": filtered,
		"total": len(users),
		"roles": counts,
	})
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserRole changes a user's role. Legacy role names are accepted and
// stored in canonical form.
func (h *Handler) UpdateUserRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := findByID(ctx, h.store.Users, c.Param("id"))
	if err != nil {
		h.fail(c, err, "unable to load user")
		return
	}
	user.Role = role

	if err := h.store.Users.Update(ctx, user.ID, user); err != nil {
		h.fail(c, err, "unable to update user")
		return
	}
	h.logger.Info("user role changed",
		zap.String("user_id", user.ID), zap.String("role", string(role)), zap.String("by", currentUser(c).ID))
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user profile. Admins cannot remove themselves.
func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == currentUser(c).ID {
		badRequest(c, errSelfDelete)
		return
	}
	if err := h.store.Users.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "unable to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
