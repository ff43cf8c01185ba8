package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient("", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient("test-key", "", "")
	require.NoError(t, err)
	assert.Equal(t, defaultModel, c.Model())
}

func TestGenerate_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Contains(t, r.URL.Path, "models/test-model:generateContent")

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "classify this", req.Contents[0].Parts[0].Text)
		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, 0.2, req.GenerationConfig.Temperature)
		assert.Equal(t, 256, req.GenerationConfig.MaxOutputTokens)

		resp := GenerateResponse{
			Candidates: []Candidate{
				{Content: Content{Parts: []Part{{Text: `{"label":"Positive"}`}}}},
			},
			UsageMetadata: &UsageMetadata{PromptTokenCount: 100, CandidatesTokenCount: 20},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	c, err := NewClient("test-key", ts.URL, "test-model")
	require.NoError(t, err)

	got, err := c.Generate(context.Background(), "classify this", GenerateOptions{Temperature: 0.2, MaxOutputTokens: 256})
	require.NoError(t, err)
	assert.Equal(t, `{"label":"Positive"}`, got)
}

func TestGenerate_JoinsMultipleParts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := GenerateResponse{
			Candidates: []Candidate{
				{Content: Content{Parts: []Part{{Text: "first"}, {Text: "second"}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	c, err := NewClient("test-key", ts.URL, "test-model")
	require.NoError(t, err)

	got, err := c.Generate(context.Background(), "prompt", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", got)
}

func TestGenerate_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota exceeded"}`))
	}))
	defer ts.Close()

	c, err := NewClient("test-key", ts.URL, "test-model")
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "prompt", GenerateOptions{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "quota exceeded")
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateResponse{})
	}))
	defer ts.Close()

	c, err := NewClient("test-key", ts.URL, "test-model")
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "prompt", GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
