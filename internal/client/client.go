// Package client is a typed HTTP client for the server-runner control API.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"server-runner/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:7777"
	userAgent      = "runnerctl/1.0"
	ssePrefix      = "data: "
)

// APIError is a non-2xx response decoded from the service error envelope.
type APIError struct {
	StatusCode  int    `json:"-"`
	RequestID   string `json:"requestId"`
	Category    string `json:"errorCategory"`
	Code        string `json:"errorCode"`
	Description string `json:"errorDescription"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s: %s (status %d, request %s)", e.Code, e.Description, e.StatusCode, e.RequestID)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New returns a client for baseURL. A zero timeout disables the per-request deadline.
func New(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	var result models.LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/login", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Start(ctx context.Context) (*models.ContainerStatus, error) {
	return c.containerCall(ctx, http.MethodPost, "/start")
}

func (c *Client) Stop(ctx context.Context) (*models.ContainerStatus, error) {
	return c.containerCall(ctx, http.MethodPost, "/stop")
}

func (c *Client) Status(ctx context.Context) (*models.ContainerStatus, error) {
	return c.containerCall(ctx, http.MethodGet, "/status")
}

func (c *Client) containerCall(ctx context.Context, method, path string) (*models.ContainerStatus, error) {
	var status models.ContainerStatus
	if err := c.doJSON(ctx, method, path, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Logs returns the last lines of the server log. lines=0 returns the whole file.
func (c *Client) Logs(ctx context.Context, lines int) ([]string, error) {
	var resp struct {
		Logs []string `json:"logs"`
	}
	query := url.Values{"lines": {strconv.Itoa(lines)}}
	if err := c.doJSON(ctx, http.MethodGet, "/logs", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

// FollowLogs reads the server-sent event stream and calls fn for every line until ctx ends
// or the server closes the stream.
func (c *Client) FollowLogs(ctx context.Context, fn func(line string)) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/logs/stream", nil, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	// the stream outlives any request timeout
	streamClient := *c.httpClient
	streamClient.Timeout = 0
	resp, err := streamClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkResponse(resp); err != nil {
		return err
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if data, ok := strings.CutPrefix(line, ssePrefix); ok {
			fn(data)
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// CreateBackup archives the server data. An empty name uses the server default.
func (c *Client) CreateBackup(ctx context.Context, name string) (*models.BackupInfo, error) {
	var info models.BackupInfo
	var body any
	if name != "" {
		body = map[string]string{"backup": name}
	}
	if err := c.doJSON(ctx, http.MethodPost, "/backup", nil, body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) ListBackups(ctx context.Context) ([]*models.BackupInfo, error) {
	var resp struct {
		Backups []*models.BackupInfo `json:"backups"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/backup", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Backups, nil
}

func (c *Client) DeleteBackup(ctx context.Context, fileName string) error {
	query := url.Values{"delete": {fileName}}
	return c.doJSON(ctx, http.MethodDelete, "/backup/delete", query, nil, nil)
}

// LoadBackup restores an archive that already exists on the server.
func (c *Client) LoadBackup(ctx context.Context, fileName string) (*models.LoadResult, error) {
	var result models.LoadResult
	body := map[string]string{"backup": fileName}
	if err := c.doJSON(ctx, http.MethodPost, "/backup/load", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UploadBackup streams a local archive as the multipart field "file" and restores it.
// The part declares its Content-Length so the server can report progress.
func (c *Client) UploadBackup(ctx context.Context, path string) (*models.LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreatePart(uploadPartHeader(filepath.Base(path), stat.Size()))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/backup/load", url.Values{"file": {"true"}}, pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result models.LoadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// uploadPartHeader is the header multipart.Writer.CreateFormFile writes, plus the part length.
func uploadPartHeader(fileName string, size int64) textproto.MIMEHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(fileName)))
	header.Set("Content-Type", "application/zip")
	header.Set("Content-Length", strconv.FormatInt(size, 10))
	return header
}

func (c *Client) History(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
	var resp struct {
		History []*models.HistoryEntry `json:"history"`
	}
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.doJSON(ctx, http.MethodGet, "/backup/history", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// FileHistory returns every recorded operation on one backup file.
func (c *Client) FileHistory(ctx context.Context, fileName string) ([]*models.HistoryEntry, error) {
	var resp struct {
		History []*models.HistoryEntry `json:"history"`
	}
	query := url.Values{"file": {fileName}}
	if err := c.doJSON(ctx, http.MethodGet, "/backup/history", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

func (c *Client) Sync(ctx context.Context) ([]models.TransferRecord, error) {
	var resp struct {
		Transfers []models.TransferRecord `json:"transfers"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/sync", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transfers, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(apiErr)
	return apiErr
}
