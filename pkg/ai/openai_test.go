package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func testClient(server *httptest.Server) *Client {
	return &Client{
		apiKey:  "sk-test",
		baseURL: server.URL,
		client:  server.Client(),
	}
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, openaiModel, req.Model)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Equal(t, "user", req.Messages[1].Role)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "summarized text"}},
			},
		})
	}))
	defer server.Close()

	out, err := testClient(server).Complete(context.Background(), "summarize", "some material")
	require.NoError(t, err)
	require.Equal(t, "summarized text", out)
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"message": "Rate limit reached",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	_, err := testClient(server).Complete(context.Background(), "summarize", "some material")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Rate limit reached")
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	_, err := testClient(server).Complete(context.Background(), "summarize", "some material")
	require.Error(t, err)
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	c := NewClient("")
	_, err := c.Complete(context.Background(), "summarize", "some material")
	require.Error(t, err)
}
