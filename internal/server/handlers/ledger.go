package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/service/ledger"
	"github.com/mamadbah2/flock/internal/service/reporting"
)

type ledgerRequest struct {
	Type         models.LedgerType   `json:"type" binding:"required"`
	Amount       models.FormNumber   `json:"amount"`
	PaidAmount   models.FormNumber   `json:"paid_amount"`
	Counterparty string              `json:"counterparty" binding:"required"`
	Description  string              `json:"description"`
	DueDate      string              `json:"due_date"`
	Status       models.LedgerStatus `json:"status"`
	Reference    string              `json:"reference"`
}

func (r ledgerRequest) apply(rec *models.LedgerRecord) error {
	if !r.Type.Valid() {
		return fmt.Errorf("invalid ledger type %q", r.Type)
	}
	status := r.Status
	if status == "" {
		status = models.LedgerPending
	}
	if !status.Valid() {
		return fmt.Errorf("invalid ledger status %q", r.Status)
	}
	due, err := optionalDate(r.DueDate)
	if err != nil {
		return fmt.Errorf("due_date: %w", err)
	}
	if r.Amount.OrZero() <= 0 {
		return errors.New("amount must be positive")
	}
	if r.PaidAmount.Negative() {
		return errors.New("paid_amount must not be negative")
	}

	rec.Type = r.Type
	rec.Amount = r.Amount.OrZero()
	rec.PaidAmount = r.PaidAmount.OrZero()
	rec.Counterparty = r.Counterparty
	rec.Description = r.Description
	rec.DueDate = due
	rec.Status = status
	if r.Reference != "" {
		rec.Reference = r.Reference
	}
	return nil
}

// ListLedger serves the debt/credit list with its totals and charts.
// Totals always cover the whole ledger; the filter only narrows the list.
func (h *Handler) ListLedger(c *gin.Context) {
	filter, err := ledger.ParseFilter(c.Query("filter"))
	if err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.reporting.Load(c.Request.Context(), reporting.Needs{Ledger: true})
	if err != nil {
		h.fail(c, err, "unable to load ledger")
		return
	}

	now := h.now()
	totals := ledger.Outstanding(snap.Ledger)
	c.JSON(http.StatusOK, gin.H{
		"filter":    filter,
		"records":   ledger.Apply(snap.Ledger, filter, now),
		"totals":    totals,
		"breakdown": ledger.Breakdown(totals),
		"activity":  ledger.MonthlyActivity(snap.Ledger, now),
	})
}

// CreateLedgerRecord opens a debt or credit.
func (h *Handler) CreateLedgerRecord(c *gin.Context) {
	var req ledgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	now := h.now().UTC()
	record := models.LedgerRecord{ID: h.newID(), CreatedBy: currentUser(c).ID, CreatedAt: now, UpdatedAt: now}
	if err := req.apply(&record); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.store.Ledger.Insert(c.Request.Context(), record); err != nil {
		h.fail(c, err, "unable to save ledger record")
		return
	}
	c.JSON(http.StatusCreated, record)
}

// UpdateLedgerRecord edits a debt or credit, typically to record a payment.
func (h *Handler) UpdateLedgerRecord(c *gin.Context) {
	var req ledgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	record, err := findByID(ctx, h.store.Ledger, c.Param("id"))
	if err != nil {
		h.fail(c, err, "unable to load ledger record")
		return
	}
	if err := req.apply(&record); err != nil {
		badRequest(c, err)
		return
	}
	record.UpdatedAt = h.now().UTC()

	if err := h.store.Ledger.Update(ctx, record.ID, record); err != nil {
		h.fail(c, err, "unable to update ledger record")
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteLedgerRecord removes a debt or credit.
func (h *Handler) DeleteLedgerRecord(c *gin.Context) {
	if err := h.store.Ledger.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "unable to delete ledger record")
		return
	}
	c.Status(http.StatusNoContent)
}
