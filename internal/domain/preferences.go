package domain

const (
	PrefKeyDashboardCardOrder = "dashboardCardOrder"
	PrefKeySidebarCollapsed   = "sidebarCollapsed"
)

// DefaultDashboardCards is the card order used when nothing is saved.
var DefaultDashboardCards = []string{
	"totalVolunteers",
	"pendingApplications",
	"completionRate",
	"participationRate",
	"activeEvents",
	"beneficiaryReach",
	"genderBreakdown",
	"growthTrend",
	"forecast",
}

type Preferences struct {
	DashboardCardOrder []string `json:"dashboardCardOrder"`
	SidebarCollapsed   bool     `json:"sidebarCollapsed"`
}

// NormalizeCardOrder drops unknown and duplicate card ids and appends any
// missing cards in default order.
func NormalizeCardOrder(order []string) []string {
	known := make(map[string]bool, len(DefaultDashboardCards))
	for _, c := range DefaultDashboardCards {
		known[c] = true
	}
	seen := make(map[string]bool, len(order))
	out := make([]string, 0, len(DefaultDashboardCards))
	for _, c := range order {
		if known[c] && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range DefaultDashboardCards {
		if !seen[c] {
			out = append(out, c)
		}
	}
	return out
}
