package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/service/health"
	"github.com/mamadbah2/flock/internal/service/reporting"
)

// HealthOverview serves per-animal assessments and the flock summary.
func (h *Handler) HealthOverview(c *gin.Context) {
	snap, err := h.reporting.Load(c.Request.Context(), reporting.Needs{Sheep: true})
	if err != nil {
		h.fail(c, err, "unable to load sheep")
		return
	}

	assessed := health.AssessAll(snap.Sheep, h.now())
	c.JSON(http.StatusOK, gin.H{
		"assessments": assessed,
		"summary":     health.Summarize(assessed),
	})
}

// HealthAlerts serves the alert feed.
func (h *Handler) HealthAlerts(c *gin.Context) {
	snap, err := h.reporting.Load(c.Request.Context(), reporting.Needs{Sheep: true, HealthRecords: true})
	if err != nil {
		h.fail(c, err, "unable to load alerts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": health.Alerts(snap.HealthRecords, snap.Sheep)})
}

// HealthPredictions serves the assessment and outlook of one animal.
func (h *Handler) HealthPredictions(c *gin.Context) {
	sheep, err := findByID(c.Request.Context(), h.store.Sheep, c.Param("id"))
	if err != nil {
		h.fail(c, err, "unable to load sheep")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sheep":       sheep,
		"assessment":  health.Score(sheep, h.now()),
		"predictions": health.Predict(sheep),
	})
}

type healthRecordRequest struct {
	SheepID     string `json:"sheep_id" binding:"required"`
	RecordType  string `json:"record_type" binding:"required"`
	Description string `json:"description"`
}

// CreateHealthRecord logs a veterinary entry for an existing animal.
func (h *Handler) CreateHealthRecord(c *gin.Context) {
	var req healthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	recordType := models.HealthRecordType(req.RecordType)
	if !recordType.Valid() {
		badRequest(c, errors.New("unknown record_type"))
		return
	}

	ctx := c.Request.Context()
	if _, err := findByID(ctx, h.store.Sheep, req.SheepID); err != nil {
		h.fail(c, err, "unable to load sheep")
		return
	}

	record := models.HealthRecord{
		ID:          h.newID(),
		SheepID:     req.SheepID,
		RecordType:  recordType,
		Description: req.Description,
		CreatedBy:   currentUser(c).ID,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.store.HealthRecords.Insert(ctx, record); err != nil {
		h.fail(c, err, "unable to save health record")
		return
	}
	c.JSON(http.StatusCreated, record)
}
