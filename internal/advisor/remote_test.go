package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonServer(t *testing.T, status int, body interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_SelectsImplementation(t *testing.T) {
	assert.IsType(t, Rules{}, New(Config{Mode: "mock", ClassificationURL: "http://example"}))
	assert.IsType(t, Rules{}, New(Config{Mode: "remote"}))
	assert.IsType(t, &Remote{}, New(Config{Mode: "remote", RoutingURL: "http://example"}))
}

func TestRemote_Classify_UsesServiceAnswer(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, map[string]interface{}{"category": "Library", "urgency": "low", "confidence": 0.91})
	r := NewRemote(Config{ClassificationURL: srv.URL, APIKey: "secret"})

	got := r.Classify(context.Background(), "urgent hostel issue", Metadata{})

	assert.Equal(t, "Library", got.Category)
	assert.Equal(t, models.UrgencyLow, got.Urgency)
	assert.Equal(t, 0.91, got.Confidence)
}

func TestRemote_Classify_DefaultsConfidence(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, map[string]interface{}{"category": "Library", "urgency": "low"})
	r := NewRemote(Config{ClassificationURL: srv.URL, APIKey: "secret"})

	got := r.Classify(context.Background(), "text", Metadata{})

	assert.Equal(t, 0.8, got.Confidence)
}

func TestRemote_FallsBackToRules(t *testing.T) {
	rules := Rules{}
	ctx := context.Background()

	tests := []struct {
		name string
		url  func(t *testing.T) string
	}{
		{"server error", func(t *testing.T) string {
			return jsonServer(t, http.StatusInternalServerError, map[string]string{"error": "boom"}).URL
		}},
		{"invalid urgency", func(t *testing.T) string {
			return jsonServer(t, http.StatusOK, map[string]string{"category": "Library", "urgency": "whenever"}).URL
		}},
		{"unreachable", func(t *testing.T) string {
			srv := httptest.NewServer(http.NotFoundHandler())
			srv.Close()
			return srv.URL
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRemote(Config{ClassificationURL: tt.url(t), APIKey: "secret", Timeout: time.Second})

			got := r.Classify(ctx, "urgent hostel issue", Metadata{})

			assert.Equal(t, rules.Classify(ctx, "urgent hostel issue", Metadata{}), got)
		})
	}
}

func TestRemote_Route_RejectsUnknownWorker(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, map[string]interface{}{"workerId": 99, "department": "Library Services", "reason": "x"})
	r := NewRemote(Config{RoutingURL: srv.URL, APIKey: "secret"})
	workers := []Worker{{ID: 1, Department: "Library Services"}}

	got := r.Route(context.Background(), RouteInput{Category: "Library"}, workers)

	require.NotNil(t, got.WorkerID)
	assert.Equal(t, uint(1), *got.WorkerID)
	assert.Equal(t, "Routed to Library Services based on complaint category: Library", got.Reason)
}

func TestRemote_Route_UsesServiceAnswer(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, map[string]interface{}{"workerId": 2, "department": "Mess Committee", "reason": "closest worker"})
	r := NewRemote(Config{RoutingURL: srv.URL, APIKey: "secret"})
	workers := []Worker{{ID: 1}, {ID: 2}}

	got := r.Route(context.Background(), RouteInput{Category: "Food & Mess"}, workers)

	require.NotNil(t, got.WorkerID)
	assert.Equal(t, uint(2), *got.WorkerID)
	assert.Equal(t, "closest worker", got.Reason)
}

func TestRemote_SummarizeAndAnalyze(t *testing.T) {
	summary := jsonServer(t, http.StatusOK, map[string]string{"summary": "All good."})
	analytics := jsonServer(t, http.StatusBadGateway, nil)
	r := NewRemote(Config{SummarizationURL: summary.URL, AnalyticsURL: analytics.URL, APIKey: "secret"})
	ctx := context.Background()

	assert.Equal(t, "All good.", r.Summarize(ctx, SummaryInput{Title: "t"}, nil))
	assert.Equal(t, Rules{}.Analyze(ctx, nil), r.Analyze(ctx, nil))
}

func TestRemote_MissingEndpointUsesRules(t *testing.T) {
	r := NewRemote(Config{AnalyticsURL: "http://unused"})
	ctx := context.Background()
	in := SummaryInput{Title: "Lamp", Category: "General", Urgency: models.UrgencyLow, Status: models.StatusOpen}

	assert.Equal(t, Rules{}.Summarize(ctx, in, nil), r.Summarize(ctx, in, nil))
}
