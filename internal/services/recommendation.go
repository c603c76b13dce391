package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/store"
	"github.com/go-resty/resty/v2"
)

// Recommender produces course recommendations for an employee code.
// Implementations must wrap every failure in ErrRecommendationUnavailable.
type Recommender interface {
	Recommend(ctx context.Context, employeeID string) ([]dto.Recommendation, error)
}

// NewRecommender returns the HTTP engine when RECOMMENDER_URL is set and
// the script engine otherwise.
func NewRecommender(cfg *config.Config) Recommender {
	if cfg.RecommenderURL != "" {
		return NewHTTPRecommender(cfg.RecommenderURL, cfg.RecommenderTimeout)
	}
	return &CommandRecommender{
		Python:  cfg.RecommenderPython,
		Script:  cfg.RecommenderScript,
		Timeout: cfg.RecommenderTimeout,
	}
}

// CommandRecommender runs the recommendation script once per request and
// reads a JSON array from the first non-empty line it prints.
type CommandRecommender struct {
	Python  string
	Script  string
	Timeout time.Duration
}

func (r *CommandRecommender) Recommend(ctx context.Context, employeeID string) ([]dto.Recommendation, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Python, r.Script, employeeID)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		slog.Error("recommendation script failed",
			"employee_id", employeeID,
			"error", err,
			"stderr", truncate(stderr.String(), 500),
		)
		return nil, fmt.Errorf("%w: %w", ErrRecommendationUnavailable, err)
	}

	return parseRecommendations(firstLine(stdout.Bytes()))
}

// HTTPRecommender calls a recommendation service over HTTP.
type HTTPRecommender struct {
	client *resty.Client
}

func NewHTTPRecommender(baseURL string, timeout time.Duration) *HTTPRecommender {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPRecommender{client: client}
}

func (r *HTTPRecommender) Recommend(ctx context.Context, employeeID string) ([]dto.Recommendation, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("employeeId", employeeID).
		Get("/recommendations/{employeeId}")
	if err != nil {
		slog.Error("recommendation request failed", "employee_id", employeeID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrRecommendationUnavailable, err)
	}
	if resp.IsError() {
		slog.Error("recommendation service returned error",
			"employee_id", employeeID,
			"status", resp.StatusCode(),
			"body", truncate(resp.String(), 500),
		)
		return nil, fmt.Errorf("%w: status %d", ErrRecommendationUnavailable, resp.StatusCode())
	}

	return parseRecommendations(resp.Body())
}

func firstLine(out []byte) []byte {
	for _, line := range bytes.Split(out, []byte("\n")) {
		if line = bytes.TrimSpace(line); len(line) > 0 {
			return line
		}
	}
	return nil
}

func parseRecommendations(raw []byte) ([]dto.Recommendation, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrRecommendationUnavailable)
	}
	var recs []dto.Recommendation
	if err := json.Unmarshal(raw, &recs); err != nil {
		slog.Error("malformed recommendation payload", "error", err, "payload", truncate(string(raw), 500))
		return nil, fmt.Errorf("%w: %w", ErrRecommendationUnavailable, err)
	}
	if recs == nil {
		recs = []dto.Recommendation{}
	}
	return recs, nil
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

type RecommendationService struct {
	users  store.UserStore
	engine Recommender
}

func NewRecommendationService(users store.UserStore, engine Recommender) *RecommendationService {
	return &RecommendationService{users: users, engine: engine}
}

func (s *RecommendationService) GetRecommendations(ctx context.Context, employeeID string, viewer Viewer) ([]dto.Recommendation, error) {
	user, err := findEmployee(ctx, s.users, employeeID)
	if err != nil {
		return nil, err
	}
	if !viewer.canView(user) {
		return nil, ErrForbidden
	}
	return s.engine.Recommend(ctx, user.EmployeeID)
}
