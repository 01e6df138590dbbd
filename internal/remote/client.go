package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
)

// Client talks to the spreadsheet web-app API. Reads go through
// ?action=getData; writes POST an {action, payload} body. Every call returns
// a {success, error, data} envelope. Writes are idempotent per
// (student, date, lesson) cell on the remote side, which is what makes
// resending the whole pending queue after a failed flush safe.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a remote client. baseURL may be empty (not configured);
// calls then fail with ErrNotConfigured.
func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Configured reports whether a remote endpoint is set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// GetData fetches the full remote dataset in wire shape.
func (c *Client) GetData(ctx context.Context) (*DataPayload, error) {
	raw, err := c.get(ctx, "getData")
	if err != nil {
		return nil, err
	}
	payload := &DataPayload{}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "malformed getData response")
	}
	return payload, nil
}

// SaveStudent upserts one student row.
func (c *Client) SaveStudent(ctx context.Context, student WireStudent) error {
	return c.post(ctx, "saveStudent", student)
}

// DeleteStudent removes a student; the remote cascades attendance rows.
func (c *Client) DeleteStudent(ctx context.Context, studentID string) error {
	return c.post(ctx, "deleteStudent", map[string]interface{}{"id": studentID, "cascade": true})
}

// SaveClass upserts one class row.
func (c *Client) SaveClass(ctx context.Context, class WireClass) error {
	return c.post(ctx, "saveClass", class)
}

// DeleteClass removes a class; the remote cascades students and attendance.
func (c *Client) DeleteClass(ctx context.Context, classID string) error {
	return c.post(ctx, "deleteClass", map[string]interface{}{"id": classID, "cascade": true})
}

// SaveAttendance writes a single cell record.
func (c *Client) SaveAttendance(ctx context.Context, record WireAttendanceRecord) error {
	return c.post(ctx, "saveAttendance", record)
}

// SaveAttendanceBatch writes the pending queue in one call.
func (c *Client) SaveAttendanceBatch(ctx context.Context, records []WireAttendanceRecord) error {
	return c.post(ctx, "saveAttendanceBatch", records)
}

// SaveConfig writes one configuration row (value already JSON-encoded).
func (c *Client) SaveConfig(ctx context.Context, key, value string) error {
	return c.post(ctx, "saveConfig", WireConfigRow{Key: key, Value: value})
}

// SaveAll bulk-writes students, classes and bimesters.
func (c *Client) SaveAll(ctx context.Context, payload *DataPayload) error {
	return c.post(ctx, "saveAll", payload)
}

func (c *Client) get(ctx context.Context, action string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, appErrors.ErrNotConfigured
	}
	endpoint := fmt.Sprintf("%s?action=%s", c.baseURL, url.QueryEscape(action))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "build remote request")
	}
	return c.do(req, action)
}

func (c *Client) post(ctx context.Context, action string, payload interface{}) error {
	if !c.Configured() {
		return appErrors.ErrNotConfigured
	}
	body, err := json.Marshal(map[string]interface{}{"action": action, "payload": payload})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "encode remote payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "build remote request")
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req, action)
	return err
}

func (c *Client) do(req *http.Request, action string) (json.RawMessage, error) {
	if c.token != "" {
		req.Header.Set("X-Api-Token", c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("remote call failed", zap.String("action", action), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "remote store unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "read remote response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, appErrors.Clone(appErrors.ErrRemote, fmt.Sprintf("remote %s returned HTTP %d", action, resp.StatusCode))
	}

	env := envelope{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "malformed remote envelope")
	}
	if !env.Success {
		message := env.Error
		if message == "" {
			message = "remote store rejected " + action
		}
		return nil, appErrors.Clone(appErrors.ErrRemote, message)
	}

	c.logger.Debug("remote call ok", zap.String("action", action), zap.Duration("latency", time.Since(start)))
	return env.Data, nil
}

// IsNetworkError distinguishes connectivity failures from remote rejections,
// so the caller can fall back to cache silently when offline but surface a
// warning otherwise.
func IsNetworkError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
