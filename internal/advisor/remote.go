package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

var errInvalidResponse = errors.New("invalid advisor response")

// Remote posts each operation as JSON to its configured endpoint. An operation without an
// endpoint, and any failed call, is answered by Rules.
type Remote struct {
	cfg        Config
	httpClient *http.Client
	fallback   Rules
}

func NewRemote(cfg Config) *Remote {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (r *Remote) post(ctx context.Context, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("advisor status %d", resp.StatusCode)
	}
	return json.Unmarshal(respBody, out)
}

func (r *Remote) Classify(ctx context.Context, text string, meta Metadata) Classification {
	if r.cfg.ClassificationURL == "" {
		return r.fallback.Classify(ctx, text, meta)
	}

	var out Classification
	err := r.post(ctx, r.cfg.ClassificationURL, map[string]interface{}{"text": text, "metadata": meta}, &out)
	if err == nil && (out.Category == "" || !out.Urgency.Valid()) {
		err = errInvalidResponse
	}
	if err != nil {
		slog.Warn("advisor classification failed, using rules", "error", err)
		return r.fallback.Classify(ctx, text, meta)
	}
	if out.Confidence == 0 {
		out.Confidence = 0.8
	}
	return out
}

// Route also rejects a suggested worker that is not among the candidates.
func (r *Remote) Route(ctx context.Context, in RouteInput, workers []Worker) Routing {
	if r.cfg.RoutingURL == "" {
		return r.fallback.Route(ctx, in, workers)
	}
	if workers == nil {
		workers = []Worker{}
	}

	var out Routing
	err := r.post(ctx, r.cfg.RoutingURL, map[string]interface{}{"complaint": in, "availableWorkers": workers}, &out)
	if err == nil && (out.Department == "" || !knownWorker(out.WorkerID, workers)) {
		err = errInvalidResponse
	}
	if err != nil {
		slog.Warn("advisor routing failed, using rules", "category", in.Category, "error", err)
		return r.fallback.Route(ctx, in, workers)
	}
	if out.Reason == "" {
		out.Reason = fmt.Sprintf("Routed to %s based on complaint category: %s", out.Department, in.Category)
	}
	return out
}

func knownWorker(id *uint, workers []Worker) bool {
	if id == nil {
		return true
	}
	for _, w := range workers {
		if w.ID == *id {
			return true
		}
	}
	return false
}

func (r *Remote) Summarize(ctx context.Context, in SummaryInput, history []HistoryItem) string {
	if r.cfg.SummarizationURL == "" {
		return r.fallback.Summarize(ctx, in, history)
	}
	if history == nil {
		history = []HistoryItem{}
	}

	var out struct {
		Summary string `json:"summary"`
	}
	err := r.post(ctx, r.cfg.SummarizationURL, map[string]interface{}{"complaint": in, "history": history}, &out)
	if err == nil && out.Summary == "" {
		err = errInvalidResponse
	}
	if err != nil {
		slog.Warn("advisor summarization failed, using rules", "error", err)
		return r.fallback.Summarize(ctx, in, history)
	}
	return out.Summary
}

func (r *Remote) Analyze(ctx context.Context, complaints []ComplaintStat) Analytics {
	if r.cfg.AnalyticsURL == "" {
		return r.fallback.Analyze(ctx, complaints)
	}
	if complaints == nil {
		complaints = []ComplaintStat{}
	}

	var out Analytics
	err := r.post(ctx, r.cfg.AnalyticsURL, map[string]interface{}{"complaints": complaints}, &out)
	if err == nil && out.Insights == nil {
		err = errInvalidResponse
	}
	if err != nil {
		slog.Warn("advisor analytics failed, using rules", "error", err)
		return r.fallback.Analyze(ctx, complaints)
	}
	return out
}
