package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mlb-games-service/internal/metrics"
	"mlb-games-service/internal/providers"
	"mlb-games-service/internal/timeutil"
)

// Config controls how the statsapi client reaches the upstream APIs.
type Config struct {
	BaseURL      string
	GumboBaseURL string
	SportID      int
	StartYear    int
	HTTPClient   *http.Client
	Metrics      *metrics.Recorder
}

// Client fetches schedule stubs and deep game records from the MLB stats API.
type Client struct {
	baseURL    string
	gumboURL   string
	sportID    int
	startYear  int
	httpClient httpDoer
	metrics    *metrics.Recorder
}

// NewClient constructs a statsapi client with the provided configuration.
func NewClient(cfg Config) *Client {
	sportID := cfg.SportID
	if sportID <= 0 {
		sportID = defaultSportID
	}
	startYear := cfg.StartYear
	if startYear <= 0 {
		startYear = defaultStartYear
	}
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL, defaultBaseURL),
		gumboURL:   normalizeBaseURL(cfg.GumboBaseURL, defaultGumboBaseURL),
		sportID:    sportID,
		startYear:  startYear,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		metrics:    cfg.Metrics,
	}
}

// FetchSchedule retrieves the full regular-season schedule window for a season,
// optionally filtered by team. Failures here abort the whole aggregation, so
// the error wraps providers.ErrUpstreamUnavailable.
func (c *Client) FetchSchedule(ctx context.Context, season, teamID int) ([]GameStub, error) {
	req, err := c.buildScheduleRequest(ctx, season, teamID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.RecordUpstreamAttempt(metrics.SourceSchedule, time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("statsapi: schedule fetch: %v: %w", err, providers.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("statsapi: schedule status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(body)), providers.ErrUpstreamUnavailable)
	}

	var payload scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("statsapi: schedule decode: %v: %w", err, providers.ErrUpstreamUnavailable)
	}

	stubs := make([]GameStub, 0)
	for _, date := range payload.Dates {
		for _, stub := range date.Games {
			if c.beforeStartYear(stub) {
				continue
			}
			stubs = append(stubs, stub)
		}
	}
	return stubs, nil
}

// FetchDetail retrieves the deep GUMBO record for one game. Failures are
// per-game and the aggregator drops the game rather than failing the request.
func (c *Client) FetchDetail(ctx context.Context, gameID string) (*GameDetail, error) {
	url := c.gumboURL + "/game/" + gameID + "/feed/live"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.RecordUpstreamAttempt(metrics.SourceDetail, time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("statsapi: detail fetch %s: %w", gameID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("statsapi: detail status %d for game %s", resp.StatusCode, gameID)
	}

	var detail GameDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("statsapi: detail decode %s: %w", gameID, err)
	}
	return &detail, nil
}

// FetchGameStats retrieves and extracts the recap-oriented statistics for one game.
func (c *Client) FetchGameStats(ctx context.Context, gameID string) (*GameStats, error) {
	detail, err := c.FetchDetail(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return ExtractGameStats(detail, StatsEvents), nil
}

func (c *Client) buildScheduleRequest(ctx context.Context, season, teamID int) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/schedule", nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("sportId", strconv.Itoa(c.sportID))
	q.Set("gameType", scheduleGameType)
	seasonStart, seasonEnd := timeutil.SeasonWindow(season)
	q.Set("startDate", seasonStart)
	q.Set("endDate", seasonEnd)
	q.Set("hydrate", scheduleHydrate)
	if teamID > 0 {
		q.Set("teamId", strconv.Itoa(teamID))
	}
	req.URL.RawQuery = q.Encode()

	return req, nil
}

// beforeStartYear filters out seasons predating the earliest supported year.
func (c *Client) beforeStartYear(stub GameStub) bool {
	date, err := time.Parse(gameDateLayout, stub.GameDate)
	if err != nil {
		// Leave unparseable dates to the normalizer, which drops them per game.
		return false
	}
	return date.Year() < c.startYear
}
