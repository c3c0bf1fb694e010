package health

import "github.com/mamadbah2/flock/internal/domain/models"

const nutritionWatchKg = 40.0

// Prediction is a heuristic outlook for one condition.
type Prediction struct {
	Condition      string `json:"condition"`
	Probability    string `json:"probability"`
	Recommendation string `json:"recommendation"`
}

// Predict returns the rule-based outlook cards for an animal.
func Predict(sheep models.Sheep) []Prediction {
	respiratory := Prediction{
		Condition:      "Respiratory infection risk",
		Probability:    "Low (15%)",
		Recommendation: "Continue regular monitoring",
	}
	if sheep.VaccinationStatus == models.VaccinationOverdue {
		respiratory.Probability = "High (75%)"
		respiratory.Recommendation = "Update vaccinations immediately and monitor breathing patterns"
	}

	nutrition := Prediction{
		Condition:      "Nutritional deficiency",
		Probability:    "Low (20%)",
		Recommendation: "Maintain current feeding schedule",
	}
	if sheep.Weight != nil && *sheep.Weight < nutritionWatchKg {
		nutrition.Probability = "Medium (45%)"
		nutrition.Recommendation = "Increase feed quality and add mineral supplements"
	}

	breeding := Prediction{
		Condition:      "Breeding complications",
		Probability:    "Not applicable",
		Recommendation: "N/A",
	}
	if sheep.HealthStatus == models.HealthPregnant {
		breeding.Probability = "Medium (35%)"
		breeding.Recommendation = "Schedule regular checkups and monitor weight gain"
	}

	return []Prediction{respiratory, nutrition, breeding}
}
