package flock

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/flock/internal/domain/models"
)

// SortKey orders the flock list.
type SortKey string

const (
	SortEarTag       SortKey = "ear_tag"
	SortBirthDate    SortKey = "birth_date"
	SortWeight       SortKey = "weight"
	SortHealthStatus SortKey = "health_status"
)

// StatusAll disables the health status filter.
const StatusAll = "all"

const unknownLabel = "Unknown"

// ListOptions narrows and orders the flock list.
type ListOptions struct {
	Search string
	Status string
	SortBy SortKey
}

// ParseListOptions validates the raw query values of the list view.
func ParseListOptions(search, status, sortBy string) (ListOptions, error) {
	opts := ListOptions{Search: strings.TrimSpace(search), Status: status, SortBy: SortKey(sortBy)}
	if opts.Status == "" {
		opts.Status = StatusAll
	}
	if opts.Status != StatusAll && !models.HealthStatus(opts.Status).Valid() {
		return ListOptions{}, fmt.Errorf("unknown health status %q", status)
	}
	switch opts.SortBy {
	case "":
		opts.SortBy = SortEarTag
	case SortEarTag, SortBirthDate, SortWeight, SortHealthStatus:
	default:
		return ListOptions{}, fmt.Errorf("unknown sort key %q", sortBy)
	}
	return opts, nil
}

// List filters by search term (ear tag or breed, case-insensitive) and health
// status, then sorts. The input slice is left untouched.
func List(sheep []models.Sheep, opts ListOptions) []models.Sheep {
	term := strings.ToLower(opts.Search)
	out := make([]models.Sheep, 0, len(sheep))
	for _, s := range sheep {
		if term != "" &&
			!strings.Contains(strings.ToLower(s.EarTag), term) &&
			!strings.Contains(strings.ToLower(s.Breed), term) {
			continue
		}
		if opts.Status != "" && opts.Status != StatusAll && string(s.HealthStatus) != opts.Status {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, less(out, opts.SortBy))
	return out
}

func less(s []models.Sheep, key SortKey) func(i, j int) bool {
	switch key {
	case SortBirthDate:
		// Unknown birth dates sort first.
		return func(i, j int) bool { return birthUnix(s[i]) < birthUnix(s[j]) }
	case SortWeight:
		// Heaviest first.
		return func(i, j int) bool { return weightOf(s[i]) > weightOf(s[j]) }
	case SortHealthStatus:
		return func(i, j int) bool { return s[i].HealthStatus < s[j].HealthStatus }
	default:
		return func(i, j int) bool { return s[i].EarTag < s[j].EarTag }
	}
}

func birthUnix(s models.Sheep) int64 {
	if s.BirthDate == nil || s.BirthDate.IsZero() {
		return 0
	}
	return s.BirthDate.Unix()
}

func weightOf(s models.Sheep) float64 {
	if s.Weight == nil {
		return 0
	}
	return *s.Weight
}

// Count is one bucket of a breakdown.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarizes the flock for the overview and reports views.
type Stats struct {
	Total                 int     `json:"total"`
	Healthy               int     `json:"healthy"`
	Sick                  int     `json:"sick"`
	Pregnant              int     `json:"pregnant"`
	Breeds                []Count `json:"breeds"`
	Genders               []Count `json:"genders"`
	AverageAgeMonths      float64 `json:"average_age_months"`
	AverageWeight         float64 `json:"average_weight"`
	TotalValue            float64 `json:"total_value"`
	VaccinationCompliance int     `json:"vaccination_compliance"`
}

// Summarize computes flock statistics. Average age covers only animals with
// a birth date; average weight spreads over the whole flock, counting unknown
// weights as zero. Both are rounded to one decimal.
func Summarize(sheep []models.Sheep, now time.Time) Stats {
	stats := Stats{Total: len(sheep)}
	breeds, genders := newCounter(), newCounter()

	var ageSum, aged int
	var weightSum float64
	for _, s := range sheep {
		switch s.HealthStatus {
		case models.HealthHealthy:
			stats.Healthy++
		case models.HealthSick:
			stats.Sick++
		case models.HealthPregnant:
			stats.Pregnant++
		}
		if s.VaccinationStatus == models.VaccinationUpToDate {
			stats.VaccinationCompliance++
		}
		breeds.add(s.Breed)
		genders.add(s.Gender)

		if age, ok := s.AgeMonths(now); ok {
			ageSum += age
			aged++
		}
		weightSum += weightOf(s)
		if s.EstimatedValue != nil {
			stats.TotalValue += *s.EstimatedValue
		}
	}

	stats.Breeds = breeds.counts()
	stats.Genders = genders.counts()
	if aged > 0 {
		stats.AverageAgeMonths = round1(float64(ageSum) / float64(aged))
	}
	if stats.Total > 0 {
		stats.AverageWeight = round1(weightSum / float64(stats.Total))
	}
	return stats
}

// HealthyShare is the percentage of healthy animals, 100 for an empty flock.
func (s Stats) HealthyShare() float64 {
	if s.Total == 0 {
		return 100
	}
	return round1(float64(s.Healthy) / float64(s.Total) * 100)
}

type counter struct {
	index map[string]int
	out   []Count
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(label string) {
	if strings.TrimSpace(label) == "" {
		label = unknownLabel
	}
	i, ok := c.index[label]
	if !ok {
		i = len(c.out)
		c.index[label] = i
		c.out = append(c.out, Count{Label: label})
	}
	c.out[i].Count++
}

func (c *counter) counts() []Count {
	out := make([]Count, len(c.out))
	copy(out, c.out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
