package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
	"github.com/mamadbah2/flock/internal/repository/sheets"
	"github.com/mamadbah2/flock/internal/service/finance"
	"github.com/mamadbah2/flock/internal/service/reporting"
)

// Dependencies are the collaborators shared by every dashboard handler.
type Dependencies struct {
	Store     repository.Store
	Reporting *reporting.Service
	// Exporter is nil when Google Sheets export is not configured.
	Exporter   sheets.Exporter
	SheetRange string
	JWTSecret  string
	Logger     *zap.Logger
}

// Handler serves the dashboard API.
type Handler struct {
	store      repository.Store
	reporting  *reporting.Service
	exporter   sheets.Exporter
	sheetRange string
	jwtSecret  []byte
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewHandler constructs the HTTP handler adapter.
func NewHandler(deps Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := deps.Reporting
	if svc == nil {
		svc = reporting.NewService(deps.Store, logger)
	}
	return &Handler{
		store:      deps.Store,
		reporting:  svc,
		exporter:   deps.Exporter,
		sheetRange: deps.SheetRange,
		jwtSecret:  []byte(deps.JWTSecret),
		logger:     logger.Named("handlers"),
		now:        svc.Now,
		newID:      uuid.NewString,
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps an error to a status code and logs it.
func (h *Handler) fail(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	if errors.Is(err, repository.ErrNotFound) {
		status = http.StatusNotFound
		message = "record not found"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		h.logger.Debug(message, zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// window reads the range query parameter.
func window(c *gin.Context) (finance.Window, error) {
	return finance.ParseWindow(c.Query("range"))
}

// ownerScope limits staff list views to the records they created.
func ownerScope(u models.User) string {
	if u.Role == models.RoleStaff {
		return u.ID
	}
	return ""
}

// optionalDate parses a form date; empty input means no date.
func optionalDate(raw string) (*models.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// dateOrToday parses a form date, defaulting to today.
func dateOrToday(raw string, now time.Time) (models.Date, error) {
	if raw == "" {
		return models.NewDate(now), nil
	}
	return models.ParseDate(raw)
}

func findByID[T repository.Record](ctx context.Context, table repository.Table[T], id string) (T, error) {
	var zero T
	rows, err := table.List(ctx, repository.Query{}.Eq("id", id).Take(1))
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("find %q: %w", id, repository.ErrNotFound)
	}
	return rows[0], nil
}

func createdByOnly[T any](records []T, owner string, createdBy func(T) string) []T {
	if owner == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if createdBy(r) == owner {
			out = append(out, r)
		}
	}
	return out
}
