package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
)

const (
	DefaultCategory   = "General"
	DefaultDepartment = "General Administration"
	RuleConfidence    = 0.75
)

// PlaceholderRecommendations is a fixed list. It is not derived from the analyzed data.
var PlaceholderRecommendations = []string{
	"Consider adding more workers to high-volume categories",
	"Implement automated routing for common complaint types",
	"Set up SLA alerts for overdue complaints",
}

type keywordRule[T any] struct {
	keywords []string
	value    T
}

// Checked in order; the first rule with a matching keyword wins.
var categoryRules = []keywordRule[string]{
	{[]string{"hostel", "accommodation"}, "Hostel & Accommodation"},
	{[]string{"food", "mess", "canteen"}, "Food & Mess"},
	{[]string{"academic", "exam", "grade"}, "Academic"},
	{[]string{"library"}, "Library"},
	{[]string{"transport", "bus"}, "Transportation"},
	{[]string{"fee", "payment"}, "Fees & Finance"},
	{[]string{"harassment", "discrimination"}, "Harassment & Discrimination"},
	{[]string{"infrastructure", "facility"}, "Infrastructure"},
}

var urgencyRules = []keywordRule[models.Urgency]{
	{[]string{"urgent", "emergency", "critical"}, models.UrgencyCritical},
	{[]string{"important", "asap", "harassment"}, models.UrgencyHigh},
	{[]string{"minor", "suggestion"}, models.UrgencyLow},
}

var departments = map[string]string{
	"Hostel & Accommodation":      "Hostel Management",
	"Food & Mess":                 "Mess Committee",
	"Academic":                    "Academic Affairs",
	"Library":                     "Library Services",
	"Transportation":              "Transport Department",
	"Fees & Finance":              "Finance Office",
	"Harassment & Discrimination": "Student Welfare",
	"Infrastructure":              "Maintenance Department",
	"General":                     "General Administration",
}

// DepartmentFor maps a category to the department that handles it.
func DepartmentFor(category string) string {
	if d, ok := departments[category]; ok {
		return d
	}
	return DefaultDepartment
}

func match[T any](text string, rules []keywordRule[T], fallback T) T {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.value
			}
		}
	}
	return fallback
}

// Rules is the deterministic keyword advisor.
type Rules struct{}

func (Rules) Classify(_ context.Context, text string, meta Metadata) Classification {
	haystack := strings.ToLower(text + " " + meta.Title)
	return Classification{
		Category:   match(haystack, categoryRules, DefaultCategory),
		Urgency:    match(haystack, urgencyRules, models.UrgencyMedium),
		Confidence: RuleConfidence,
	}
}

// Route prefers the first worker of the category's department, then the first worker at all.
func (Rules) Route(_ context.Context, in RouteInput, workers []Worker) Routing {
	department := DepartmentFor(in.Category)

	var workerID *uint
	for i := range workers {
		if workers[i].Department == department {
			id := workers[i].ID
			workerID = &id
			break
		}
	}
	if workerID == nil && len(workers) > 0 {
		id := workers[0].ID
		workerID = &id
	}

	return Routing{
		WorkerID:   workerID,
		Department: department,
		Reason:     fmt.Sprintf("Routed to %s based on complaint category: %s", department, in.Category),
	}
}

func (Rules) Summarize(_ context.Context, in SummaryInput, history []HistoryItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Complaint \"%s\" in category %s with %s urgency. ", in.Title, in.Category, in.Urgency)

	if len(history) > 0 {
		changes := 0
		for _, h := range history {
			if h.ActionType == models.ActionStatusChange {
				changes++
			}
		}
		fmt.Fprintf(&b, "Has %d history entries including %d status changes. ", len(history), changes)
	}

	switch in.Status {
	case models.StatusResolved:
		b.WriteString("Currently resolved.")
	case models.StatusInProgress:
		b.WriteString("Currently being worked on.")
	default:
		b.WriteString("Awaiting assignment or action.")
	}
	return b.String()
}

func (Rules) Analyze(_ context.Context, complaints []ComplaintStat) Analytics {
	trends := Trends{ByStatus: map[string]int{}, ByCategory: map[string]int{}}
	var order []string
	for _, c := range complaints {
		trends.ByStatus[string(c.Status)]++
		if trends.ByCategory[c.Category] == 0 {
			order = append(order, c.Category)
		}
		trends.ByCategory[c.Category]++
	}

	top := "N/A"
	best := 0
	for _, cat := range order {
		if n := trends.ByCategory[cat]; n > best {
			top, best = cat, n
		}
	}

	rate := 0.0
	if len(complaints) > 0 {
		rate = float64(trends.ByStatus[string(models.StatusResolved)]) / float64(len(complaints)) * 100
	}

	recommendations := make([]string, len(PlaceholderRecommendations))
	copy(recommendations, PlaceholderRecommendations)

	return Analytics{
		Insights: []string{
			fmt.Sprintf("Total of %d complaints analyzed.", len(complaints)),
			fmt.Sprintf("Most common category: %s", top),
			fmt.Sprintf("Resolution rate: %.1f%%", rate),
		},
		Trends:          trends,
		Recommendations: recommendations,
	}
}
