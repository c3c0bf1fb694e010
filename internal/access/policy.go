package access

import "github.com/mamadbah2/flock/internal/domain/models"

// Section identifies one area of the dashboard.
type Section string

const (
	SectionOverview  Section = "overview"
	SectionSheep     Section = "sheep"
	SectionHealth    Section = "health"
	SectionFinance   Section = "finance"
	SectionAnalytics Section = "analytics"
	SectionReports   Section = "reports"
	SectionUsers     Section = "users"
	SectionExpenses  Section = "expenses"
)

// DeniedMessage is rendered in place of a section the role may not see.
const DeniedMessage = "Access Denied"

// DeniedNotice is surfaced to the user when a navigation is redirected.
const DeniedNotice = "Access denied: You do not have permission to view this section."

var sectionsByRole = map[models.Role][]Section{
	models.RoleVeterinarian: {SectionHealth},
	models.RoleStaff:        {SectionSheep, SectionHealth, SectionExpenses},
	models.RoleAdmin: {
		SectionOverview,
		SectionSheep,
		SectionHealth,
		SectionFinance,
		SectionAnalytics,
		SectionReports,
		SectionUsers,
	},
}

var fallbackSections = []Section{SectionSheep}

// AllowedSections returns the sections a role may open, in menu order.
// Unrecognized roles get the fallback menu.
func AllowedSections(role models.Role) []Section {
	sections, ok := sectionsByRole[models.NormalizeRole(string(role))]
	if !ok {
		sections = fallbackSections
	}
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// IsAllowed reports whether role may render or mutate section.
func IsAllowed(role models.Role, section Section) bool {
	for _, s := range AllowedSections(role) {
		if s == section {
			return true
		}
	}
	return false
}

// Decision is the outcome of a navigation request.
type Decision struct {
	Section Section `json:"section"`
	Denied  bool    `json:"denied"`
	Notice  string  `json:"notice,omitempty"`
}

// Navigate resolves a navigation to section. A denied request is redirected to
// the role's first allowed section and carries the denial notice.
func Navigate(role models.Role, section Section) Decision {
	if IsAllowed(role, section) {
		return Decision{Section: section}
	}
	return Decision{
		Section: AllowedSections(role)[0],
		Denied:  true,
		Notice:  DeniedNotice,
	}
}
