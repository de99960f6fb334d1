package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mlb-games-service/internal/domain"
	"mlb-games-service/internal/providers/statsapi"
)

var summaryGenConfig = &generationConfig{
	Temperature:     0.3,
	TopP:            0.9,
	MaxOutputTokens: 2048,
	CandidateCount:  1,
}

var recapGenConfig = &generationConfig{
	Temperature:     0.3,
	TopP:            0.9,
	MaxOutputTokens: 512,
	CandidateCount:  1,
}

// Summarize asks the model chain for trilingual summaries of one batch of
// games and returns them keyed by game ID, then language code. Responses
// wrapped in markdown fences are unwrapped before decoding.
func (c *Client) Summarize(ctx context.Context, games []domain.Game) (map[string]map[string]string, error) {
	if len(games) == 0 {
		return map[string]map[string]string{}, nil
	}

	raw, err := c.generateText(ctx, batchSummaryPrompt(games), summaryGenConfig)
	if err != nil {
		return nil, err
	}

	cleaned, err := cleanJSONEnvelope(raw)
	if err != nil {
		return nil, err
	}

	var summaries map[string]map[string]string
	if err := json.Unmarshal([]byte(cleaned), &summaries); err != nil {
		return nil, fmt.Errorf("decode summaries: %w", err)
	}
	return summaries, nil
}

// RecapText generates a single-game narrative recap in English.
func (c *Client) RecapText(ctx context.Context, game domain.Game, stats *statsapi.GameStats) (string, error) {
	raw, err := c.generateText(ctx, recapPrompt(game, stats), recapGenConfig)
	if err != nil {
		return "", err
	}
	return cleanRecapText(raw), nil
}

// cleanJSONEnvelope strips markdown code fences and requires the remainder
// to be a JSON object envelope.
func cleanJSONEnvelope(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
		return "", fmt.Errorf("response is not a JSON object")
	}
	return cleaned, nil
}

// cleanRecapText flattens paragraph breaks and doubled spaces into single
// spaces so recaps render as one line.
func cleanRecapText(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.ReplaceAll(text, "\n\n", " ")
	text = strings.ReplaceAll(text, "  ", " ")
	return text
}
