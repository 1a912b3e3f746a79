package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// judgeIDHeader carries the judge identity on score submissions.
const judgeIDHeader = "X-Judge-ID"

// HTTPClient wraps http.Client with a shared timeout.
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// PostJSON performs a POST request with a JSON body and optional extra
// headers.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, body any, headers map[string]string) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.client.Do(req)
}

// PostCSV performs a POST request with a raw CSV body.
func (c *HTTPClient) PostCSV(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()
	return io.ReadAll(resp.Body)
}

// decodeResponse reads the body and decodes JSON into v, enforcing the
// expected status code.
func decodeResponse(resp *http.Response, wantStatus int, v any) error {
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// submitScoresheets submits all sheets concurrently using a worker pool.
func submitScoresheets(ctx context.Context, config *Config, sheets []Scoresheet, stats *Stats) error {
	log.Printf("submitting %d scoresheets with %d workers", len(sheets), config.Workers)

	client := newHTTPClient(config.Timeout)

	var (
		successful int64
		failed     int64
		submitted  int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	sheetChan := make(chan Scoresheet, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for sheet := range sheetChan {
				select {
				case <-ctx.Done():
					return
				default:
					err := submitSingleSheet(ctx, client, config.BaseURL, sheet)

					atomic.AddInt64(&submitted, 1)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("submission failed for team %d: %v", sheet.TeamNumber, err)
						}
					} else {
						atomic.AddInt64(&successful, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)
						log.Printf("progress: %d/%d submitted (success: %d, failed: %d)",
							total, len(sheets), succ, fail)
					}
				}
			}
		}()
	}

	go func() {
		defer close(sheetChan)
		for _, sheet := range sheets {
			select {
			case <-ctx.Done():
				return
			case sheetChan <- sheet:
			}
		}
	}()

	wg.Wait()

	stats.SheetsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SheetsSuccessful = int(atomic.LoadInt64(&successful))
	stats.SheetsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("scoresheet submission completed: successful=%d failed=%d",
		stats.SheetsSuccessful, stats.SheetsFailed)

	return nil
}

// submitSingleSheet posts one scoresheet with the judge identity header.
func submitSingleSheet(ctx context.Context, client *HTTPClient, baseURL string, sheet Scoresheet) error {
	url := fmt.Sprintf("%s/teams/%s/score", baseURL, sheet.TeamID)
	body := map[string]any{
		"scores":  sheet.Scores,
		"comment": sheet.Comment,
	}

	resp, err := client.PostJSON(ctx, url, body, map[string]string{judgeIDHeader: sheet.JudgeID})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp, StatusOK, nil)
}
