package health

import (
	"sort"

	"github.com/mamadbah2/flock/internal/domain/models"
)

// MaxAlerts caps the alert feed.
const MaxAlerts = 50

// AlertRecordTypes are the record types that surface as alerts.
var AlertRecordTypes = []models.HealthRecordType{models.RecordIllness, models.RecordCheckup}

// Alerts derives the alert feed from health records: illness entries are high
// severity, checkups medium, everything else is ignored. Newest first.
func Alerts(records []models.HealthRecord, flock []models.Sheep) []models.HealthAlert {
	byID := make(map[string]models.Sheep, len(flock))
	for _, s := range flock {
		byID[s.ID] = s
	}

	alerts := make([]models.HealthAlert, 0, len(records))
	for _, rec := range records {
		var severity models.Severity
		switch rec.RecordType {
		case models.RecordIllness:
			severity = models.SeverityHigh
		case models.RecordCheckup:
			severity = models.SeverityMedium
		default:
			continue
		}
		sheep := byID[rec.SheepID]
		alerts = append(alerts, models.HealthAlert{
			ID:        rec.ID,
			SheepID:   rec.SheepID,
			EarTag:    sheep.EarTag,
			Breed:     sheep.Breed,
			AlertType: string(rec.RecordType),
			Severity:  severity,
			Message:   rec.Description,
			CreatedAt: rec.CreatedAt,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	if len(alerts) > MaxAlerts {
		alerts = alerts[:MaxAlerts]
	}
	return alerts
}
