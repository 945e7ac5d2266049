package advisor

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_Classify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		title    string
		category string
		urgency  models.Urgency
	}{
		{"hostel and urgent", "urgent hostel issue", "", "Hostel & Accommodation", models.UrgencyCritical},
		{"title contributes", "the water is cold", "Mess food", "Food & Mess", models.UrgencyMedium},
		{"category priority order", "library fee problem", "", "Library", models.UrgencyMedium},
		{"harassment raises urgency", "I faced harassment in class", "", "Harassment & Discrimination", models.UrgencyHigh},
		{"case insensitive", "BUS is LATE, minor thing", "", "Transportation", models.UrgencyLow},
		{"critical beats low", "minor but critical exam issue", "", "Academic", models.UrgencyCritical},
		{"nothing matches", "something odd happened", "", "General", models.UrgencyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rules{}.Classify(context.Background(), tt.text, Metadata{Title: tt.title})

			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.urgency, got.Urgency)
			assert.Equal(t, RuleConfidence, got.Confidence)
		})
	}
}

func TestRules_Route_NoWorkers(t *testing.T) {
	got := Rules{}.Route(context.Background(), RouteInput{Category: "Library"}, nil)

	assert.Nil(t, got.WorkerID)
	assert.Equal(t, "Library Services", got.Department)
	assert.Contains(t, got.Reason, "Library Services")
	assert.Equal(t, "Routed to Library Services based on complaint category: Library", got.Reason)
}

func TestRules_Route_PrefersDepartmentWorker(t *testing.T) {
	workers := []Worker{
		{ID: 3, Name: "Ann", Department: "Finance Office"},
		{ID: 7, Name: "Bo", Department: "Mess Committee"},
		{ID: 9, Name: "Cy", Department: "Mess Committee"},
	}

	got := Rules{}.Route(context.Background(), RouteInput{Category: "Food & Mess"}, workers)

	require.NotNil(t, got.WorkerID)
	assert.Equal(t, uint(7), *got.WorkerID)
	assert.Equal(t, "Mess Committee", got.Department)
}

func TestRules_Route_FallsBackToFirstWorker(t *testing.T) {
	workers := []Worker{{ID: 4, Department: "Finance Office"}, {ID: 5}}

	got := Rules{}.Route(context.Background(), RouteInput{Category: "Something New"}, workers)

	require.NotNil(t, got.WorkerID)
	assert.Equal(t, uint(4), *got.WorkerID)
	assert.Equal(t, DefaultDepartment, got.Department)
}

func TestRules_Summarize(t *testing.T) {
	in := SummaryInput{Title: "Broken fan", Category: "Hostel & Accommodation", Urgency: models.UrgencyHigh}

	t.Run("no history", func(t *testing.T) {
		in := in
		in.Status = models.StatusOpen
		got := Rules{}.Summarize(context.Background(), in, nil)
		assert.Equal(t, `Complaint "Broken fan" in category Hostel & Accommodation with high urgency. Awaiting assignment or action.`, got)
	})

	t.Run("with history", func(t *testing.T) {
		in := in
		in.Status = models.StatusInProgress
		history := []HistoryItem{
			{ActionType: models.ActionCreated},
			{ActionType: models.ActionAssigned},
			{ActionType: models.ActionStatusChange},
		}
		got := Rules{}.Summarize(context.Background(), in, history)
		assert.Equal(t, `Complaint "Broken fan" in category Hostel & Accommodation with high urgency. Has 3 history entries including 1 status changes. Currently being worked on.`, got)
	})

	t.Run("resolved", func(t *testing.T) {
		in := in
		in.Status = models.StatusResolved
		got := Rules{}.Summarize(context.Background(), in, nil)
		assert.Contains(t, got, "Currently resolved.")
	})
}

func TestRules_Analyze(t *testing.T) {
	complaints := []ComplaintStat{
		{Category: "Library", Status: models.StatusOpen},
		{Category: "Academic", Status: models.StatusResolved},
		{Category: "Academic", Status: models.StatusClosed},
		{Category: "Library", Status: models.StatusResolved},
	}

	got := Rules{}.Analyze(context.Background(), complaints)

	require.Len(t, got.Insights, 3)
	assert.Equal(t, "Total of 4 complaints analyzed.", got.Insights[0])
	assert.Equal(t, "Most common category: Library", got.Insights[1], "ties go to the first category seen")
	assert.Equal(t, "Resolution rate: 50.0%", got.Insights[2])
	assert.Equal(t, 2, got.Trends.ByCategory["Academic"])
	assert.Equal(t, 2, got.Trends.ByStatus["resolved"])
	assert.Equal(t, PlaceholderRecommendations, got.Recommendations)
}

func TestRules_Analyze_Empty(t *testing.T) {
	got := Rules{}.Analyze(context.Background(), nil)

	assert.Equal(t, []string{
		"Total of 0 complaints analyzed.",
		"Most common category: N/A",
		"Resolution rate: 0.0%",
	}, got.Insights)
}

func TestDepartmentFor(t *testing.T) {
	assert.Equal(t, "Student Welfare", DepartmentFor("Harassment & Discrimination"))
	assert.Equal(t, "General Administration", DepartmentFor("General"))
	assert.Equal(t, "General Administration", DepartmentFor("Parking"))
}
