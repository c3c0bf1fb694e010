package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
	"github.com/mamadbah2/flock/internal/service/finance"
	"github.com/mamadbah2/flock/internal/service/flock"
	"github.com/mamadbah2/flock/internal/service/reporting"
)

// recentSheepLimit caps the overview's recent additions list.
const recentSheepLimit = 5

type sheepRequest struct {
	EarTag            string            `json:"ear_tag" binding:"required"`
	Breed             string            `json:"breed"`
	BirthDate         string            `json:"birth_date"`
	Gender            string            `json:"gender"`
	Weight            models.FormNumber `json:"weight"`
	HealthStatus      string            `json:"health_status"`
	VaccinationStatus string            `json:"vaccination_status"`
	EstimatedValue    models.FormNumber `json:"estimated_value"`
	Notes             string            `json:"notes"`
	MotherID          string            `json:"mother_id"`
	FatherID          string            `json:"father_id"`
}

// apply copies the form onto s and validates the result.
func (r sheepRequest) apply(s *models.Sheep) error {
	birth, err := optionalDate(r.BirthDate)
	if err != nil {
		return fmt.Errorf("birth_date: %w", err)
	}
	s.EarTag = r.EarTag
	s.Breed = r.Breed
	s.BirthDate = birth
	s.Gender = r.Gender
	s.Weight = r.Weight.Optional()
	s.HealthStatus = models.HealthStatus(r.HealthStatus)
	if s.HealthStatus == "" {
		s.HealthStatus = models.HealthHealthy
	}
	s.VaccinationStatus = models.VaccinationStatus(r.VaccinationStatus)
	if s.VaccinationStatus == "" {
		s.VaccinationStatus = models.VaccinationUpToDate
	}
	s.EstimatedValue = r.EstimatedValue.Optional()
	s.Notes = r.Notes
	s.MotherID = optionalID(r.MotherID)
	s.FatherID = optionalID(r.FatherID)
	return s.Validate()
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// Overview serves the dashboard cards and the latest additions to the flock.
func (h *Handler) Overview(c *gin.Context) {
	snap, err := h.reporting.Load(c.Request.Context(), reporting.Needs{
		Sheep: true, Sales: true, Expenses: true, Window: finance.WindowCurrentMonth,
	})
	if err != nil {
		h.fail(c, err, "unable to load overview")
		return
	}

	recent := snap.Sheep
	if len(recent) > recentSheepLimit {
		recent = recent[:recentSheepLimit]
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":        reporting.Overview(snap, h.now()),
		"recent_sheep": recent,
	})
}

// ListSheep serves the flock list with search, status filter and sort order.
func (h *Handler) ListSheep(c *gin.Context) {
	opts, err := flock.ParseListOptions(c.Query("search"), c.Query("status"), c.Query("sort"))
	if err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.reporting.Load(c.Request.Context(), reporting.Needs{Sheep: true, Owner: ownerScope(currentUser(c))})
	if err != nil {
		h.fail(c, err, "unable to load sheep")
		return
	}

	list := flock.List(snap.Sheep, opts)
	c.JSON(http.StatusOK, gin.H{
		"sheep": list,
		"total": len(list),
		"stats": flock.Summarize(snap.Sheep, h.now()),
	})
}

// CreateSheep registers a new animal.
func (h *Handler) CreateSheep(c *gin.Context) {
	var req sheepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	now := h.now().UTC()
	sheep := models.Sheep{ID: h.newID(), CreatedBy: currentUser(c).ID, CreatedAt: now, UpdatedAt: now}
	if err := req.apply(&sheep); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.store.Sheep.Insert(c.Request.Context(), sheep); err != nil {
		h.fail(c, err, "unable to save sheep")
		return
	}
	h.logger.Info("sheep registered", zap.String("id", sheep.ID), zap.String("ear_tag", sheep.EarTag))
	c.JSON(http.StatusCreated, sheep)
}

// UpdateSheep edits an animal, keeping its provenance fields. Staff can only
// edit sheep they registered; others read as missing.
func (h *Handler) UpdateSheep(c *gin.Context) {
	var req sheepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	sheep, err := findByID(ctx, h.store.Sheep, c.Param("id"))
	if err != nil {
		h.fail(c, err, "unable to load sheep")
		return
	}
	if owner := ownerScope(currentUser(c)); owner != "" && sheep.CreatedBy != owner {
		h.fail(c, repository.ErrNotFound, "unable to load sheep")
		return
	}
	if err := req.apply(&sheep); err != nil {
		badRequest(c, err)
		return
	}
	sheep.UpdatedAt = h.now().UTC()

	if err := h.store.Sheep.Update(ctx, sheep.ID, sheep); err != nil {
		h.fail(c, err, "unable to update sheep")
		return
	}
	c.JSON(http.StatusOK, sheep)
}

// DeleteSheep removes an animal. The route is admin-only.
func (h *Handler) DeleteSheep(c *gin.Context) {
	if err := h.store.Sheep.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "unable to delete sheep")
		return
	}
	c.Status(http.StatusNoContent)
}
