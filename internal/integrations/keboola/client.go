package keboola

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// StorageClient is the surface the services consume; the production
// implementation talks to the Keboola Storage API.
type StorageClient interface {
	ReadTable(ctx context.Context, tableID string) ([]map[string]string, error)
	WriteTable(ctx context.Context, tableID string, header []string, rows [][]string) error
}

// Client is a facade over the Keboola Storage API.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	token           string
	jobPollInterval time.Duration
	jobPollTimeout  time.Duration
	logger          *zap.Logger
}

type Option func(*Client)

// WithJobPolling overrides the import-job polling cadence.
func WithJobPolling(interval, timeout time.Duration) Option {
	return func(c *Client) {
		c.jobPollInterval = interval
		c.jobPollTimeout = timeout
	}
}

func New(baseURL, token string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:      &http.Client{Timeout: 20 * time.Second},
		baseURL:         baseURL,
		token:           token,
		jobPollInterval: 2 * time.Second,
		jobPollTimeout:  5 * time.Minute,
		logger:          logger.Named("keboola_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadTable fetches a table as CSV and decodes it into header-keyed records.
func (c *Client) ReadTable(ctx context.Context, tableID string) ([]map[string]string, error) {
	endpoint := fmt.Sprintf("/v2/storage/tables/%s/data-preview?format=rfc&limit=100000", url.PathEscape(tableID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building export request for table %q: %w", tableID, err)
	}
	req.Header.Set("X-StorageApi-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exporting table %q: %w", tableID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("storage API returned %s for table %q: %s", resp.Status, tableID, string(body))
	}

	records, err := DecodeCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding CSV for table %q: %w", tableID, err)
	}

	c.logger.Debug("table exported",
		zap.String("table_id", tableID),
		zap.Int("rows", len(records)),
	)
	return records, nil
}

// WriteTable uploads rows as CSV and runs a full-load import job on the table,
// polling the job until it finishes.
func (c *Client) WriteTable(ctx context.Context, tableID string, header []string, rows [][]string) error {
	var csvBuf bytes.Buffer
	if err := EncodeCSV(&csvBuf, header, rows); err != nil {
		return fmt.Errorf("encoding CSV for table %q: %w", tableID, err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("data", "data.csv")
	if err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(csvBuf.Bytes()); err != nil {
		return fmt.Errorf("writing multipart body: %w", err)
	}
	if err := mw.WriteField("incremental", "0"); err != nil {
		return fmt.Errorf("writing multipart field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("/v2/storage/tables/%s/import-async", url.PathEscape(tableID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &body)
	if err != nil {
		return fmt.Errorf("building import request for table %q: %w", tableID, err)
	}
	req.Header.Set("X-StorageApi-Token", c.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("starting import for table %q: %w", tableID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("storage API returned %s starting import for table %q: %s", resp.Status, tableID, string(respBody))
	}

	var job storageJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return fmt.Errorf("decoding import job for table %q: %w", tableID, err)
	}

	c.logger.Info("import job started",
		zap.String("table_id", tableID),
		zap.Int64("job_id", job.ID),
		zap.Int("rows", len(rows)),
	)
	return c.waitForJob(ctx, job.ID)
}

type storageJob struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) waitForJob(ctx context.Context, jobID int64) error {
	deadline := time.Now().Add(c.jobPollTimeout)
	ticker := time.NewTicker(c.jobPollInterval)
	defer ticker.Stop()

	for {
		job, err := c.fetchJob(ctx, jobID)
		if err != nil {
			return err
		}

		switch job.Status {
		case "success":
			return nil
		case "error":
			return fmt.Errorf("storage job %d failed: %s", jobID, job.Error.Message)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("storage job %d did not finish within %s", jobID, c.jobPollTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) fetchJob(ctx context.Context, jobID int64) (*storageJob, error) {
	endpoint := fmt.Sprintf("/v2/storage/jobs/%d", jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building job request: %w", err)
	}
	req.Header.Set("X-StorageApi-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching job %d: %w", jobID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storage API returned %s for job %d", resp.Status, jobID)
	}

	var job storageJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decoding job %d: %w", jobID, err)
	}
	return &job, nil
}
