// File: internal/inference/remote.go
package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Svel26/VIO/internal/config"
	"github.com/Svel26/VIO/internal/perception"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// -- Wire structures (internal to this file) --

type inferRequest struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
}

type inferResponse struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
	Error string    `json:"error,omitempty"`
}

// RemoteSession talks to a detection service over HTTP. The service accepts a
// flat tensor payload and answers with the raw detection tensor; transient
// transport errors are retried with exponential backoff.
type RemoteSession struct {
	endpoint   string
	httpClient *http.Client
	maxRetries int
	logger     *zap.Logger
}

// NewRemoteSession builds a session for the configured endpoint. An empty
// endpoint is a configuration error here; callers wanting a disabled detector
// simply pass a nil Session to the detector instead.
func NewRemoteSession(cfg config.InferenceConfig, logger *zap.Logger) (*RemoteSession, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteSession{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
		logger:     logger.Named("inference.remote"),
	}, nil
}

// Run posts the input tensor to the detection service and decodes the raw
// output tensor from the response.
func (s *RemoteSession) Run(ctx context.Context, input *perception.Tensor) (*perception.Tensor, error) {
	if input == nil {
		return nil, fmt.Errorf("inference: nil input tensor")
	}

	payload, err := json.Marshal(inferRequest{
		Name:  input.Name(),
		Shape: input.Shape(),
		Data:  input.Data(),
	})
	if err != nil {
		return nil, fmt.Errorf("inference: marshal request: %w", err)
	}

	var parsed inferResponse
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("inference service returned status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return backoff.Permanent(fmt.Errorf("inference: unmarshal response: %w", err))
		}
		if parsed.Error != "" {
			return backoff.Permanent(fmt.Errorf("inference service error: %s", parsed.Error))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.maxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		s.logger.Warn("Inference call failed.", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	name := parsed.Name
	if name == "" {
		name = "output0"
	}
	out, err := perception.NewTensorFrom(name, parsed.Data, parsed.Shape...)
	if err != nil {
		return nil, fmt.Errorf("inference: malformed output tensor: %w", err)
	}
	return out, nil
}
