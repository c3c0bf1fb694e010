package finance

import (
	"fmt"
	"time"

	"github.com/mamadbah2/flock/internal/domain/models"
)

// Window is a named date range used by list and report views.
type Window string

const (
	WindowCurrentMonth Window = "current_month"
	WindowLastMonth    Window = "last_month"
	WindowCurrentYear  Window = "current_year"
	WindowLastYear     Window = "last_year"
	WindowAll          Window = "all"
)

// DefaultWindow is applied when a request names no range.
const DefaultWindow = WindowCurrentMonth

// ParseWindow validates a range name. An empty name selects DefaultWindow.
func ParseWindow(raw string) (Window, error) {
	switch w := Window(raw); w {
	case "":
		return DefaultWindow, nil
	case WindowCurrentMonth, WindowLastMonth, WindowCurrentYear, WindowLastYear, WindowAll:
		return w, nil
	default:
		return "", fmt.Errorf("unknown date range %q", raw)
	}
}

// Bounds returns the inclusive first and last day of the window relative to
// now. ok is false for WindowAll, which has no bounds.
func (w Window) Bounds(now time.Time) (from, to models.Date, ok bool) {
	today := models.NewDate(now)
	switch w {
	case WindowCurrentMonth:
		return firstOfMonth(now, 0), today, true
	case WindowLastMonth:
		this := firstOfMonth(now, 0)
		return firstOfMonth(now, -1), models.NewDate(this.AddDate(0, 0, -1)), true
	case WindowCurrentYear:
		return firstOfYear(now.Year()), today, true
	case WindowLastYear:
		return firstOfYear(now.Year() - 1), models.NewDate(firstOfYear(now.Year()).AddDate(0, 0, -1)), true
	default:
		return models.Date{}, models.Date{}, false
	}
}

// Contains reports whether d falls inside the window. Undated entries only
// belong to WindowAll.
func (w Window) Contains(d models.Date, now time.Time) bool {
	from, to, ok := w.Bounds(now)
	if !ok {
		return true
	}
	if d.IsZero() {
		return false
	}
	return !d.Before(from) && !d.After(to)
}

// FilterWindow keeps the transactions dated inside w.
func FilterWindow(txs []models.Transaction, w Window, now time.Time) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if w.Contains(tx.Date, now) {
			out = append(out, tx)
		}
	}
	return out
}

func firstOfYear(year int) models.Date {
	return models.Date{Time: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)}
}
