// File: internal/oracle/client_test.go
package oracle_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Svel26/VIO/api/schemas"
	"github.com/Svel26/VIO/internal/config"
	"github.com/Svel26/VIO/internal/oracle"
)

var testJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// geminiBody renders a minimal generateContent response whose single candidate
// carries the given text.
func geminiBody(text string) string {
	b, _ := testJSON.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	return string(b)
}

func newClient(t *testing.T, endpoint string, retries int) *oracle.Client {
	t.Helper()
	c, err := oracle.NewClient(config.OracleConfig{
		APIKey:     "test-key",
		Endpoint:   endpoint,
		Model:      "gemini-2.5-flash",
		APITimeout: 5 * time.Second,
		MaxRetries: retries,
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func testObservation() *schemas.Observation {
	return &schemas.Observation{
		CycleID:   "cycle-1",
		DisplayID: "display-0",
		Elements: []schemas.DetectedElement{
			{ID: 0, Type: "button", Text: "", Confidence: 0.9},
		},
		Transcript: "(no actions recorded)",
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := oracle.NewClient(config.OracleConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestDecide_ParsesDecision(t *testing.T) {
	var gotKey string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, geminiBody(`{"tool":"click","params":{"text":"Submit"},"thought":"t","rationale":"r"}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, 0)
	action, err := c.Decide(context.Background(), testObservation())
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, string(gotBody), "display-0", "the observation travels in the prompt")
	assert.Equal(t, "click", action.Tool)
	assert.Equal(t, "Submit", action.Params["text"])
	assert.Equal(t, "t", action.Thought)
	assert.NotEmpty(t, action.ID)
}

func TestDecide_RetriesRateLimit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, geminiBody(`{"tool":"conclude","params":{},"thought":"","rationale":"done"}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, 3)
	action, err := c.Decide(context.Background(), testObservation())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, "conclude", action.Tool)
}

func TestDecide_AuthErrorIsPermanent(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, 3)
	_, err := c.Decide(context.Background(), testObservation())
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "4xx other than 429 must not be retried")
}

func TestDecide_MalformedDecision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiBody("not json at all"))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, 0)
	_, err := c.Decide(context.Background(), testObservation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed decision")
}

func TestDecide_MissingTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiBody(`{"params":{},"thought":"","rationale":""}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, 0)
	_, err := c.Decide(context.Background(), testObservation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a tool")
}

func TestDecide_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, 0)
	_, err := c.Decide(context.Background(), testObservation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
