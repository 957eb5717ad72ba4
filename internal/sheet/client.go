// Package sheet talks to the spreadsheet-backed action endpoint: a single URL
// that lists rows on GET and runs a named action on POST, always answering
// with the same success/data/message envelope.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

// ContentType is sent on every POST. text/plain is a "simple" content type,
// so browsers and the script host skip the CORS pre-flight request.
const ContentType = "text/plain;charset=utf-8"

// Action names understood by the remote script.
const (
	ActionLogin         = "login"
	ActionGetUsers      = "getUsers"
	ActionAddRequest    = "addRequest"
	ActionUpdateRequest = "updateRequest"
	ActionDeleteRequest = "deleteRequest"
	ActionAddUser       = "addUser"
	ActionDeleteUser    = "deleteUser"
)

// Client performs one synchronous round trip per call. It never retries.
type Client struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a client for the configured script URL.
func NewClient(cfg config.SheetConfig, logger *zap.Logger) *Client {
	maxRedirects := cfg.MaxRedirects
	httpClient := &http.Client{
		Timeout: cfg.Timeout(),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return NewClientWithHTTP(cfg.ScriptURL, httpClient, logger)
}

// NewClientWithHTTP builds a client around an existing *http.Client.
func NewClientWithHTTP(scriptURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{url: scriptURL, http: httpClient, logger: logger}
}

// List issues a GET. An empty action lists tickets; ActionGetUsers lists users.
func (c *Client) List(ctx context.Context, action string) (*Envelope, error) {
	target := c.url
	if action != "" {
		parsed, err := url.Parse(c.url)
		if err != nil {
			return nil, classify("list", err)
		}
		query := parsed.Query()
		query.Set("action", action)
		parsed.RawQuery = query.Encode()
		target = parsed.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, classify(listContext(action), err)
	}
	return c.roundTrip(req, listContext(action))
}

// Do serializes {"action": action, ...payload} and POSTs it.
func (c *Client) Do(ctx context.Context, action string, payload map[string]any) (*Envelope, error) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["action"] = action

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(encoded))
	if err != nil {
		return nil, classify(action, err)
	}
	req.Header.Set("Content-Type", ContentType)
	return c.roundTrip(req, action)
}

// Ping checks that the endpoint is reachable and its deployment knows the
// user actions.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.List(ctx, ActionGetUsers)
	return err
}

func (c *Client) roundTrip(req *http.Request, op string) (*Envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("sheet request failed", zap.String("action", op), zap.Error(err))
		return nil, classify(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected response status: %s", resp.Status)
		c.logger.Error("sheet request failed", zap.String("action", op), zap.Error(err))
		return nil, classify(op, err)
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		c.logger.Error("sheet response undecodable", zap.String("action", op), zap.Error(err))
		return nil, classify(op, err)
	}
	if !env.Success {
		failure := scriptFailure(env)
		c.logger.Warn("sheet action rejected",
			zap.String("action", op),
			zap.String("code", env.Code),
			zap.String("message", env.Message))
		return nil, failure
	}
	return env, nil
}

func listContext(action string) string {
	if action == "" {
		return "fetchRequests"
	}
	return action
}

func decodeEnvelope(raw []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response body")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var env Envelope
	if err := dec.Decode(&env); err != nil {
		snippet := string(trimmed)
		if len(snippet) > 80 {
			snippet = snippet[:80]
		}
		return nil, fmt.Errorf("invalid JSON response %q: %w", strings.TrimSpace(snippet), err)
	}
	return &env, nil
}
