// Package hub fetches sample rows from the public HuggingFace
// datasets-server, used to build review CSVs from the IMDB corpus.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/kamilpajak/sentimark/internal/dataset"
)

const (
	defaultBaseURL = "https://datasets-server.huggingface.co"

	// rowsPerRequest is the datasets-server /rows page size cap.
	rowsPerRequest = 100

	maxRetries     = 3
	initialBackoff = 2 * time.Second
)

// Client talks to the HuggingFace datasets-server REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a datasets-server client. baseURL falls back to the
// public endpoint when empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type rowsResponse struct {
	Rows []struct {
		Row struct {
			Text  string `json:"text"`
			Label int    `json:"label"`
		} `json:"row"`
	} `json:"rows"`
}

// FetchRows retrieves a window of rows from a dataset split. Rows follow
// the IMDB shape: text plus a 0/1 label mapped to negative/positive.
func (c *Client) FetchRows(ctx context.Context, name, config, split string, offset, length int) ([]dataset.Review, error) {
	if length > rowsPerRequest {
		length = rowsPerRequest
	}

	endpoint := fmt.Sprintf("%s/rows?dataset=%s&config=%s&split=%s&offset=%d&length=%d",
		c.baseURL, url.QueryEscape(name), url.QueryEscape(config), url.QueryEscape(split), offset, length)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.doWithRetry(req)
	if err != nil {
		return nil, err
	}

	var parsed rowsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse rows response: %w", err)
	}

	reviews := make([]dataset.Review, 0, len(parsed.Rows))
	for i, row := range parsed.Rows {
		sentiment := "negative"
		if row.Row.Label == 1 {
			sentiment = "positive"
		}
		reviews = append(reviews, dataset.Review{
			ID:        offset + i + 1,
			Text:      row.Row.Text,
			Sentiment: sentiment,
		})
	}
	return reviews, nil
}

// SampleIMDB fetches a window of the IMDB train split and returns a
// deterministic seeded sample of size rows with 1-based ids.
func (c *Client) SampleIMDB(ctx context.Context, size int, seed int64) ([]dataset.Review, error) {
	if size <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", size)
	}
	if size > rowsPerRequest {
		return nil, fmt.Errorf("sample size %d exceeds the per-request row cap of %d", size, rowsPerRequest)
	}

	window, err := c.FetchRows(ctx, "imdb", "plain_text", "train", 0, rowsPerRequest)
	if err != nil {
		return nil, fmt.Errorf("fetch imdb rows: %w", err)
	}
	if len(window) < size {
		return nil, fmt.Errorf("imdb window has %d rows, need %d", len(window), size)
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(window), func(i, j int) {
		window[i], window[j] = window[j], window[i]
	})

	sample := window[:size]
	for i := range sample {
		sample[i].ID = i + 1
	}
	return sample, nil
}

// doWithRetry retries on transport errors and 5xx responses with
// exponential backoff.
func (c *Client) doWithRetry(req *http.Request) ([]byte, error) {
	backoff := initialBackoff

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := c.httpClient.Do(req)
		if err == nil && resp.StatusCode < 500 {
			defer resp.Body.Close()
			body, readErr := io.ReadAll(resp.Body)
			if readErr != nil {
				return nil, fmt.Errorf("failed to read response: %w", readErr)
			}
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("datasets-server error: %s - %s", resp.Status, string(body))
			}
			return body, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("datasets-server returned %s", resp.Status)
			resp.Body.Close()
		}

		slog.Warn("datasets-server request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", lastErr.Error()))

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("datasets-server request failed after %d attempts: %w", maxRetries, lastErr)
}
