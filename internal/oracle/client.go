// File: internal/oracle/client.go

// Package oracle is the thin adapter to the external reasoning oracle. The
// oracle receives one observation per cycle and answers with exactly one next
// action; all planning logic lives on the far side of this boundary.
package oracle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Svel26/VIO/api/schemas"
	"github.com/Svel26/VIO/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const systemPrompt = `You are the reasoning module of a desktop automation agent.
You receive one observation per step: the UI elements detected on screen and a
transcript of recent actions. Respond with a single JSON object:
{"tool": "<tool name>", "params": {...}, "thought": "...", "rationale": "..."}
Respond with tool "conclude" when the objective is complete or unreachable.`

// Client talks to a Gemini-compatible generateContent endpoint.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	cfg        config.OracleConfig
	logger     *zap.Logger
}

// -- Wire structures (internal to this file) --

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	GenerationConfig  struct {
		Temperature      float64 `json:"temperature"`
		ResponseMimeType string  `json:"response_mime_type,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

type decisionPayload struct {
	Tool      string                 `json:"tool"`
	Params    map[string]interface{} `json:"params"`
	Thought   string                 `json:"thought"`
	Rationale string                 `json:"rationale"`
}

// NewClient initializes the oracle client.
func NewClient(cfg config.OracleConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("oracle API key is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", cfg.Model)
	}
	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg,
		logger:     logger.Named("oracle"),
	}, nil
}

// Decide sends the observation and returns the oracle's single next action.
func (c *Client) Decide(ctx context.Context, obs *schemas.Observation) (*schemas.NextAction, error) {
	obsJSON, err := json.Marshal(obs)
	if err != nil {
		return nil, fmt.Errorf("oracle: marshal observation: %w", err)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: string(obsJSON)}},
		}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
	}
	reqBody.GenerationConfig.Temperature = c.cfg.Temperature
	reqBody.GenerationConfig.ResponseMimeType = "application/json"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("oracle: marshal request: %w", err)
	}

	var text string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("oracle returned status %d: %s", resp.StatusCode, truncateBody(body))
			// Retry rate limits and server-side errors, nothing else.
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return err
			}
			return backoff.Permanent(err)
		}

		var parsed geminiResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("oracle: unmarshal response: %w", err))
		}
		if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
			return fmt.Errorf("oracle returned no candidates")
		}
		text = parsed.Candidates[0].Content.Parts[0].Text
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("oracle request failed: %w", err)
	}

	var decision decisionPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &decision); err != nil {
		return nil, fmt.Errorf("oracle: malformed decision %q: %w", truncateBody([]byte(text)), err)
	}
	if decision.Tool == "" {
		return nil, fmt.Errorf("oracle decision is missing a tool")
	}

	return &schemas.NextAction{
		ID:        uuid.New().String(),
		Tool:      decision.Tool,
		Params:    decision.Params,
		Thought:   decision.Thought,
		Rationale: decision.Rationale,
		Timestamp: time.Now(),
	}, nil
}

func truncateBody(b []byte) string {
	const n = 200
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
