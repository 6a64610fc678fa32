package sheetdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	sheetsBaseURL = "https://sheets.googleapis.com/v4"
	driveBaseURL  = "https://www.googleapis.com/drive/v3"
)

// ValuesAPI is the store surface the adapter is built on. Implementations talk
// to the real Sheets/Drive HTTP API; tests substitute a mock.
type ValuesAPI interface {
	GetValues(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error)
	AppendValues(ctx context.Context, spreadsheetID, rangeA1 string, values [][]string) error
	UpdateValues(ctx context.Context, spreadsheetID, rangeA1 string, values [][]string) error
	ListTabs(ctx context.Context, spreadsheetID string) ([]string, error)
	AddTab(ctx context.Context, spreadsheetID, title string) error
	CreateSpreadsheet(ctx context.Context, title string, tabs []string) (string, error)
	CopyFile(ctx context.Context, fileID, folderID, name string) (string, error)
}

// TokenSource supplies a bearer token for the store API.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource is a fixed access token, typically from the environment.
type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}

// Client is the resty-backed Sheets/Drive client.
type Client struct {
	sheets *resty.Client
	drive  *resty.Client
	tokens TokenSource
	logger *zap.Logger
}

// NewClient creates a store client with bounded retries on transient failures.
func NewClient(tokens TokenSource, logger *zap.Logger) *Client {
	newHTTP := func(base string) *resty.Client {
		return resty.New().
			SetBaseURL(base).
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(5 * time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
			}).
			SetHeader("Accept", "application/json")
	}
	return &Client{
		sheets: newHTTP(sheetsBaseURL),
		drive:  newHTTP(driveBaseURL),
		tokens: tokens,
		logger: logger,
	}
}

type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values,omitempty"`
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *Client) request(ctx context.Context, rc *resty.Client) (*resty.Request, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheetdb: token source: %w", err)
	}
	return rc.R().SetContext(ctx).SetAuthToken(token), nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("sheetdb: transport: %w", err)
	}
	if resp.IsSuccess() {
		return nil
	}
	var body apiErrorBody
	message := resp.Status()
	if jsonErr := json.Unmarshal(resp.Body(), &body); jsonErr == nil && body.Error.Message != "" {
		message = body.Error.Message
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: message}
}

func (c *Client) GetValues(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error) {
	req, err := c.request(ctx, c.sheets)
	if err != nil {
		return nil, err
	}
	var out valueRange
	resp, err := req.
		SetResult(&out).
		SetQueryParam("valueRenderOption", "FORMATTED_VALUE").
		Get(fmt.Sprintf("/spreadsheets/%s/values/%s", spreadsheetID, url.PathEscape(rangeA1)))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return out.Values, nil
}

func (c *Client) AppendValues(ctx context.Context, spreadsheetID, rangeA1 string, values [][]string) error {
	req, err := c.request(ctx, c.sheets)
	if err != nil {
		return err
	}
	resp, err := req.
		SetQueryParam("valueInputOption", "RAW").
		SetBody(valueRange{Values: values}).
		Post(fmt.Sprintf("/spreadsheets/%s/values/%s:append", spreadsheetID, url.PathEscape(rangeA1)))
	return checkResponse(resp, err)
}

func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, rangeA1 string, values [][]string) error {
	req, err := c.request(ctx, c.sheets)
	if err != nil {
		return err
	}
	resp, err := req.
		SetQueryParam("valueInputOption", "RAW").
		SetBody(valueRange{Values: values}).
		Put(fmt.Sprintf("/spreadsheets/%s/values/%s", spreadsheetID, url.PathEscape(rangeA1)))
	return checkResponse(resp, err)
}

type spreadsheetMeta struct {
	SpreadsheetID string `json:"spreadsheetId"`
	Sheets        []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

func (c *Client) ListTabs(ctx context.Context, spreadsheetID string) ([]string, error) {
	req, err := c.request(ctx, c.sheets)
	if err != nil {
		return nil, err
	}
	var meta spreadsheetMeta
	resp, err := req.
		SetResult(&meta).
		SetQueryParam("fields", "sheets.properties.title").
		Get(fmt.Sprintf("/spreadsheets/%s", spreadsheetID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	tabs := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		tabs = append(tabs, s.Properties.Title)
	}
	return tabs, nil
}

func (c *Client) AddTab(ctx context.Context, spreadsheetID, title string) error {
	req, err := c.request(ctx, c.sheets)
	if err != nil {
		return err
	}
	body := map[string]any{
		"requests": []map[string]any{
			{"addSheet": map[string]any{"properties": map[string]any{"title": title}}},
		},
	}
	resp, err := req.
		SetBody(body).
		Post(fmt.Sprintf("/spreadsheets/%s:batchUpdate", spreadsheetID))
	return checkResponse(resp, err)
}

func (c *Client) CreateSpreadsheet(ctx context.Context, title string, tabs []string) (string, error) {
	req, err := c.request(ctx, c.sheets)
	if err != nil {
		return "", err
	}
	sheets := make([]map[string]any, 0, len(tabs))
	for _, tab := range tabs {
		sheets = append(sheets, map[string]any{"properties": map[string]any{"title": tab}})
	}
	var meta spreadsheetMeta
	resp, err := req.
		SetResult(&meta).
		SetBody(map[string]any{
			"properties": map[string]any{"title": title},
			"sheets":     sheets,
		}).
		Post("/spreadsheets")
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}
	if meta.SpreadsheetID == "" {
		return "", fmt.Errorf("sheetdb: spreadsheet creation returned no id")
	}
	return meta.SpreadsheetID, nil
}

type driveFile struct {
	ID string `json:"id"`
}

func (c *Client) CopyFile(ctx context.Context, fileID, folderID, name string) (string, error) {
	req, err := c.request(ctx, c.drive)
	if err != nil {
		return "", err
	}
	var out driveFile
	resp, err := req.
		SetResult(&out).
		SetQueryParam("supportsAllDrives", "true").
		SetQueryParam("fields", "id").
		SetBody(map[string]any{"name": name, "parents": []string{folderID}}).
		Post(fmt.Sprintf("/files/%s/copy", fileID))
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("sheetdb: drive copy returned no id for %s", name)
	}
	c.logger.Info("duplicated template spreadsheet",
		zap.String("source", fileID),
		zap.String("copy", out.ID),
		zap.String("name", name),
	)
	return out.ID, nil
}
