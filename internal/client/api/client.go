// Package api is the HTTP client the CLI uses to talk to the MindEase
// server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/server/models"
)

// ErrUnavailable means the server could not be reached at all.
var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx answer carrying the server's {"error": ...} text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusUnauthorized
}

type AuthResult struct {
	Token string               `json:"token"`
	User  models.PublicProfile `json:"user"`
}

type MoodResult struct {
	Message string   `json:"message"`
	Tips    []string `json:"tips"`
}

type Wellness struct {
	Steps       int       `json:"steps"`
	HeartRate   int       `json:"heartRate"`
	SleepHours  string    `json:"sleepHours"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TrackMood(ctx context.Context, token, mood, note string) (*MoodResult, error) {
	var out MoodResult
	body := map[string]string{"mood": mood, "note": note}
	if err := c.do(ctx, http.MethodPost, "/api/mood", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMoods(ctx context.Context, token string, limit int) ([]models.MoodEntry, error) {
	var out struct {
		Entries []models.MoodEntry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, withLimit("/api/mood", limit), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) SaveJournal(ctx context.Context, token, content string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/journal", token, map[string]string{"content": content}, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ListJournals(ctx context.Context, token string, limit int) ([]models.JournalEntry, error) {
	var out struct {
		Entries []models.JournalEntry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodGet, withLimit("/api/journal", limit), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) Chat(ctx context.Context, token, message string) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat", token, map[string]string{"message": message}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *Client) Wellness(ctx context.Context, token string) (*Wellness, error) {
	var out Wellness
	if err := c.do(ctx, http.MethodGet, "/api/wellness", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks that the server answers /healthz.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", "", nil, nil)
}

func withLimit(path string, limit int) string {
	if limit <= 0 {
		return path
	}
	return path + "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&er)
		return &APIError{StatusCode: resp.StatusCode, Message: er.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
