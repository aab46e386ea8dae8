// Package docintel calls a hosted document-intelligence service for
// OCR-grade text extraction. It is the preferred extraction path: when
// it is unconfigured or fails, callers fall back to local parsing.
package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"casefile-backend/internal/shared/telemetry"
)

const (
	apiVersion          = "2024-02-29-preview"
	defaultPollInterval = 2 * time.Second
	maxPolls            = 30
)

// UnavailableError marks failures where the service could not be
// reached or was never configured, as opposed to a bad document.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	return "document intelligence unavailable: " + e.Reason
}

// IsUnavailable reports whether err means the service itself was the
// problem rather than the input.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// Result carries everything the analysis pipeline records about an
// extraction: the text plus layout metadata for the document record.
type Result struct {
	Text          string         `json:"text"`
	Confidence    float64        `json:"confidence"`
	PageCount     int            `json:"pageCount"`
	Tables        []Table        `json:"tables,omitempty"`
	KeyValuePairs []KeyValuePair `json:"keyValuePairs,omitempty"`
}

type Table struct {
	RowCount    int      `json:"rowCount"`
	ColumnCount int      `json:"columnCount"`
	Cells       []string `json:"cells,omitempty"`
}

type KeyValuePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Client struct {
	Endpoint     string
	APIKey       string
	HTTP         *http.Client
	PollInterval time.Duration
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		Endpoint:     endpoint,
		APIKey:       apiKey,
		HTTP:         &http.Client{Timeout: 60 * time.Second},
		PollInterval: defaultPollInterval,
	}
}

func (c *Client) IsAvailable() bool {
	return c != nil && c.Endpoint != "" && c.APIKey != ""
}

// Analyze submits the document bytes and polls the returned operation
// until it succeeds or the context expires.
func (c *Client) Analyze(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	if !c.IsAvailable() {
		return nil, &UnavailableError{Reason: "endpoint or api key not configured"}
	}

	opURL, err := c.submit(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}
	return c.poll(ctx, opURL)
}

func (c *Client) submit(ctx context.Context, data []byte, mimeType string) (string, error) {
	url := fmt.Sprintf("%s/documentintelligence/documentModels/prebuilt-layout:analyze?api-version=%s", c.Endpoint, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &UnavailableError{Reason: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &UnavailableError{Reason: fmt.Sprintf("auth rejected with status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("docintel: submit status %d: %s", resp.StatusCode, string(snippet))
	}
	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", errors.New("docintel: missing operation location")
	}
	return opURL, nil
}

func (c *Client) poll(ctx context.Context, opURL string) (*Result, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	for attempt := 0; attempt < maxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.APIKey)
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, &UnavailableError{Reason: err.Error()}
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
		resp.Body.Close()
		if readErr != nil {
			return nil, readErr
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("docintel: poll status %d", resp.StatusCode)
		}

		var op operationResponse
		if err := json.Unmarshal(body, &op); err != nil {
			return nil, fmt.Errorf("docintel: decode poll response: %w", err)
		}
		switch op.Status {
		case "succeeded":
			return op.result(), nil
		case "failed":
			return nil, fmt.Errorf("docintel: analysis failed: %s", op.Error.Message)
		default:
			// running or notStarted, keep polling
		}
	}
	return nil, errors.New("docintel: analysis did not complete in time")
}

type operationResponse struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		Content string `json:"content"`
		Pages   []struct {
			Words []struct {
				Confidence float64 `json:"confidence"`
			} `json:"words"`
		} `json:"pages"`
		Tables []struct {
			RowCount    int `json:"rowCount"`
			ColumnCount int `json:"columnCount"`
			Cells       []struct {
				Content string `json:"content"`
			} `json:"cells"`
		} `json:"tables"`
		KeyValuePairs []struct {
			Key   struct{ Content string `json:"content"` } `json:"key"`
			Value struct{ Content string `json:"content"` } `json:"value"`
		} `json:"keyValuePairs"`
	} `json:"analyzeResult"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (op *operationResponse) result() *Result {
	ar := op.AnalyzeResult
	res := &Result{
		Text:      ar.Content,
		PageCount: len(ar.Pages),
	}

	var sum float64
	var n int
	for _, page := range ar.Pages {
		for _, word := range page.Words {
			sum += word.Confidence
			n++
		}
	}
	if n > 0 {
		res.Confidence = sum / float64(n)
	}

	for _, table := range ar.Tables {
		t := Table{RowCount: table.RowCount, ColumnCount: table.ColumnCount}
		for _, cell := range table.Cells {
			t.Cells = append(t.Cells, cell.Content)
		}
		res.Tables = append(res.Tables, t)
	}
	for _, kv := range ar.KeyValuePairs {
		res.KeyValuePairs = append(res.KeyValuePairs, KeyValuePair{Key: kv.Key.Content, Value: kv.Value.Content})
	}

	telemetry.Info("document intelligence extraction complete", map[string]any{
		"pages":      res.PageCount,
		"tables":     len(res.Tables),
		"confidence": res.Confidence,
	})
	return res
}
