package health

import (
	"time"

	"github.com/mamadbah2/flock/internal/domain/models"
)

const (
	maxScore = 100

	seniorAgeMonths   = 60
	juvenileAgeMonths = 6

	underweightScoreKg = 30.0
	overweightScoreKg  = 100.0
	// The risk listing has always flagged underweight animals earlier than the
	// score penalizes them. Both cut-offs are kept as recorded.
	underweightRiskKg = 35.0
)

// Risk factor labels.
const (
	RiskOverdueVaccinations = "Overdue vaccinations"
	RiskCurrentlyIll        = "Currently ill"
	RiskAdvancedAge         = "Advanced age"
	RiskUnderweight         = "Underweight"
	RiskIncompleteData      = "Incomplete health data"
)

var statusPenalty = map[models.HealthStatus]int{
	models.HealthSick:       40,
	models.HealthRecovering: 20,
	models.HealthPregnant:   5,
}

var vaccinationPenalty = map[models.VaccinationStatus]int{
	models.VaccinationOverdue: 25,
	models.VaccinationDue:     10,
}

// Assessment is the scored view of one animal.
type Assessment struct {
	Score       int      `json:"score"`
	RiskFactors []string `json:"risk_factors"`
}

// Score rates an animal on a 0-100 scale and lists its risk factors. Missing
// weight or birth date skip the matching penalty.
func Score(sheep models.Sheep, now time.Time) Assessment {
	score := maxScore

	ageMonths, hasAge := sheep.AgeMonths(now)
	if hasAge {
		if ageMonths > seniorAgeMonths {
			score -= 10
		}
		if ageMonths < juvenileAgeMonths {
			score -= 5
		}
	}

	score -= statusPenalty[sheep.HealthStatus]
	score -= vaccinationPenalty[sheep.VaccinationStatus]

	if sheep.Weight != nil {
		switch w := *sheep.Weight; {
		case w < underweightScoreKg:
			score -= 15
		case w > overweightScoreKg:
			score -= 10
		}
	}

	return Assessment{
		Score:       clamp(score, 0, maxScore),
		RiskFactors: riskFactors(sheep, ageMonths, hasAge),
	}
}

func riskFactors(sheep models.Sheep, ageMonths int, hasAge bool) []string {
	factors := make([]string, 0, 5)

	if sheep.VaccinationStatus == models.VaccinationOverdue {
		factors = append(factors, RiskOverdueVaccinations)
	}
	if sheep.HealthStatus == models.HealthSick {
		factors = append(factors, RiskCurrentlyIll)
	}
	if hasAge && ageMonths > seniorAgeMonths {
		factors = append(factors, RiskAdvancedAge)
	}
	if sheep.Weight != nil && *sheep.Weight < underweightRiskKg {
		factors = append(factors, RiskUnderweight)
	}
	if sheep.Weight == nil || !hasAge {
		factors = append(factors, RiskIncompleteData)
	}

	return factors
}

// Band groups a score into the three display bands.
type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

// BandFor returns the display band of a score.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 60:
		return BandFair
	default:
		return BandPoor
	}
}

// Assessed pairs an animal with its assessment.
type Assessed struct {
	Sheep       models.Sheep `json:"sheep"`
	Score       int          `json:"score"`
	Band        Band         `json:"band"`
	RiskFactors []string     `json:"risk_factors"`
	LastUpdated time.Time    `json:"last_updated"`
}

// AssessAll scores every animal, keeping input order.
func AssessAll(flock []models.Sheep, now time.Time) []Assessed {
	out := make([]Assessed, 0, len(flock))
	for _, s := range flock {
		a := Score(s, now)
		out = append(out, Assessed{
			Sheep:       s,
			Score:       a.Score,
			Band:        BandFor(a.Score),
			RiskFactors: a.RiskFactors,
			LastUpdated: s.LastUpdated(),
		})
	}
	return out
}

// Summary is the headline of the health view.
type Summary struct {
	Total        int     `json:"total"`
	Healthy      int     `json:"healthy"`
	Sick         int     `json:"sick"`
	AverageScore float64 `json:"average_score"`
}

// Summarize counts healthy and sick animals and averages their scores.
// An empty flock yields an all-zero summary.
func Summarize(assessed []Assessed) Summary {
	summary := Summary{Total: len(assessed)}
	if len(assessed) == 0 {
		return summary
	}
	var total int
	for _, a := range assessed {
		switch a.Sheep.HealthStatus {
		case models.HealthHealthy:
			summary.Healthy++
		case models.HealthSick:
			summary.Sick++
		}
		total += a.Score
	}
	summary.AverageScore = float64(total) / float64(len(assessed))
	return summary
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
