package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/export"
	"github.com/mamadbah2/flock/internal/service/finance"
	"github.com/mamadbah2/flock/internal/service/reporting"
)

// ReportSummary serves the statistics of the reports view.
func (h *Handler) ReportSummary(c *gin.Context) {
	w, err := window(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.reporting.Load(c.Request.Context(), reporting.Everything(w))
	if err != nil {
		h.fail(c, err, "unable to load report data")
		return
	}
	c.JSON(http.StatusOK, reporting.Summarize(snap, w, h.now()))
}

// buildReport resolves the kind and range of a report request and builds its
// rows. It writes the error response itself and reports whether to go on.
func (h *Handler) buildReport(c *gin.Context) (reporting.Kind, finance.Window, []models.Row, bool) {
	kind, err := reporting.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return "", "", nil, false
	}
	w, err := window(c)
	if err != nil {
		badRequest(c, err)
		return "", "", nil, false
	}

	rows, err := h.reporting.Report(c.Request.Context(), kind, w)
	if err != nil {
		h.fail(c, err, "unable to build report")
		return "", "", nil, false
	}
	return kind, w, rows, true
}

// Report serves report rows as JSON.
func (h *Handler) Report(c *gin.Context) {
	kind, w, rows, ok := h.buildReport(c)
	if !ok {
		return
	}
	if rows == nil {
		rows = []models.Row{}
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "date_range": w, "rows": rows})
}

// ReportCSV serves report rows as a CSV download. An empty report downloads
// as an empty file.
func (h *Handler) ReportCSV(c *gin.Context) {
	kind, w, rows, ok := h.buildReport(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteRowsCSV(&buf, rows); err != nil {
		h.fail(c, err, "unable to render report")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(string(kind), string(w))))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// ReportToSheet appends report rows to the configured spreadsheet.
func (h *Handler) ReportToSheet(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "google sheets export is not configured"})
		return
	}
	kind, w, rows, ok := h.buildReport(c)
	if !ok {
		return
	}

	lines, err := h.exporter.AppendRows(c.Request.Context(), h.sheetRange, rows)
	if err != nil {
		h.logger.Error("sheet export failed", zap.String("kind", string(kind)), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to export report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "date_range": w, "lines": lines})
}

// SaveSnapshot persists the overview row for a range.
func (h *Handler) SaveSnapshot(c *gin.Context) {
	w, err := window(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	snapshot, err := h.reporting.SaveSnapshot(c.Request.Context(), w, currentUser(c).ID)
	if err != nil {
		h.fail(c, err, "unable to save report snapshot")
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}
