// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sketch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/anvil/pkg/types"
)

// streamServer returns an httptest server that speaks the v0 streaming
// protocol, emitting one chunk per delta then [DONE].
func streamServer(t *testing.T, deltas []string, capture *[]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		if capture != nil {
			body := new(bytes.Buffer)
			body.ReadFrom(r.Body)
			*capture = body.Bytes()
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			chunk := map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion.chunk",
				"created": 1,
				"model":   DefaultModel,
				"choices": []map[string]any{
					{"index": 0, "delta": map[string]string{"content": d}},
				},
			}
			data, err := json.Marshal(chunk)
			require.NoError(t, err)
			fmt.Fprintf(w, "data: %s\n\n", data)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func testClient(baseURL string) *Client {
	return NewClient(types.SketchConfig{
		BaseURL: baseURL,
		APIKey:  "v0_test_key",
	})
}

func TestGenerateReassemblesDeltas(t *testing.T) {
	ts := streamServer(t, []string{"```py:main.py\n", "print(1)\n", "```"}, nil)
	defer ts.Close()

	var echoed bytes.Buffer
	got, err := testClient(ts.URL).Generate(context.Background(), "a script", &echoed)
	require.NoError(t, err)

	want := "```py:main.py\nprint(1)\n```"
	assert.Equal(t, want, got)
	assert.Equal(t, want, echoed.String())
}

func TestGenerateSendsPromptAndModel(t *testing.T) {
	var captured []byte
	ts := streamServer(t, []string{"ok"}, &captured)
	defer ts.Close()

	_, err := testClient(ts.URL).Generate(context.Background(), "build a todo app", nil)
	require.NoError(t, err)

	var req struct {
		Model    string `json:"model"`
		Stream   bool   `json:"stream"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(captured, &req))

	assert.Equal(t, DefaultModel, req.Model)
	assert.True(t, req.Stream)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Equal(t, "build a todo app", req.Messages[0].Content)
}

func TestGenerateAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid api key", "type": "auth"}}`)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Generate(context.Background(), "anything", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling v0 API")
}

func TestGenerateContextCancellation(t *testing.T) {
	ts := streamServer(t, []string{"partial"}, nil)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(ts.URL).Generate(ctx, "anything", nil)
	require.Error(t, err)
}
