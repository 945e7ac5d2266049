// Package advisor classifies, routes and summarizes complaints and produces analytics insights.
// Rules is the deterministic implementation; Remote calls an inference service and falls back to
// Rules whenever that service cannot answer.
package advisor

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
)

// Advisor never returns errors. Implementations degrade to the rule-based answer instead.
type Advisor interface {
	Classify(ctx context.Context, text string, meta Metadata) Classification
	Route(ctx context.Context, in RouteInput, workers []Worker) Routing
	Summarize(ctx context.Context, in SummaryInput, history []HistoryItem) string
	Analyze(ctx context.Context, complaints []ComplaintStat) Analytics
}

type Metadata struct {
	Title string `json:"title,omitempty"`
}

type Classification struct {
	Category   string         `json:"category"`
	Urgency    models.Urgency `json:"urgency"`
	Confidence float64        `json:"confidence"`
}

type RouteInput struct {
	Title    string         `json:"title"`
	Category string         `json:"category"`
	Urgency  models.Urgency `json:"urgency"`
}

// Worker is a routing candidate. Department is empty for workers without one.
type Worker struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type Routing struct {
	WorkerID   *uint  `json:"workerId"`
	Department string `json:"department"`
	Reason     string `json:"reason"`
}

type SummaryInput struct {
	Title    string         `json:"title"`
	Category string         `json:"category"`
	Urgency  models.Urgency `json:"urgency"`
	Status   models.Status  `json:"status"`
}

type HistoryItem struct {
	ActionType models.ActionType `json:"action_type"`
	Note       string            `json:"note,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

type ComplaintStat struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Category  string         `json:"category"`
	Status    models.Status  `json:"status"`
	Urgency   models.Urgency `json:"urgency"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Trends struct {
	ByStatus   map[string]int `json:"byStatus"`
	ByCategory map[string]int `json:"byCategory"`
}

type Analytics struct {
	Insights        []string `json:"insights"`
	Trends          Trends   `json:"trends"`
	Recommendations []string `json:"recommendations"`
}

// Config selects and configures an implementation. Mode "mock" always uses Rules.
type Config struct {
	Mode              string
	ClassificationURL string
	RoutingURL        string
	SummarizationURL  string
	AnalyticsURL      string
	APIKey            string
	Timeout           time.Duration
}

func (c Config) hasEndpoints() bool {
	return c.ClassificationURL != "" || c.RoutingURL != "" || c.SummarizationURL != "" || c.AnalyticsURL != ""
}

// New returns Rules in mock mode or when no endpoint is configured, otherwise a Remote advisor.
func New(cfg Config) Advisor {
	if cfg.Mode == "mock" || !cfg.hasEndpoints() {
		return Rules{}
	}
	return NewRemote(cfg)
}
