package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/logger"
)

// APIKeyHeader carries the printer API key on every request.
const APIKeyHeader = "X-Api-Key"

// ClientOptions configures a Client.
type ClientOptions struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is the HTTP implementation of API.
type Client struct {
	base   string
	apiKey string
	http   *http.Client
	log    logger.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a client for the printer at opts.BaseURL.
func NewClient(opts ClientOptions, log logger.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		base:   strings.TrimRight(opts.BaseURL, "/"),
		apiKey: opts.APIKey,
		http:   hc,
		log:    logger.OrNoop(log),
	}
}

// printerResponse is the shape of GET /api/printer.
type printerResponse struct {
	State struct {
		Text  string `json:"text"`
		Flags struct {
			Printing bool `json:"printing"`
		} `json:"flags"`
	} `json:"state"`
}

// LocalLockStatus fetches whether the lock is enabled and the expected code.
func (c *Client) LocalLockStatus(ctx context.Context) (LockStatus, error) {
	var st LockStatus
	err := c.do(ctx, CmdLockStatus, nil, &st)
	return st, err
}

// Unlock tells the printer the correct code was entered.
func (c *Client) Unlock(ctx context.Context) error {
	return c.do(ctx, CmdUnlock, nil, nil)
}

// ImmediateLock asks the printer to lock every panel now.
func (c *Client) ImmediateLock(ctx context.Context) error {
	return c.do(ctx, CmdImmediateLock, nil, nil)
}

// SetAutoLock turns auto-lock on or off.
func (c *Client) SetAutoLock(ctx context.Context, enabled bool) error {
	return c.do(ctx, OnOff(enabled, CmdAutoLockOn, CmdAutoLockOff), nil, nil)
}

// NotifyInvalidUnlock reports that the attempt limit was reached.
func (c *Client) NotifyInvalidUnlock(ctx context.Context) error {
	return c.do(ctx, CmdInvalidUnlock, nil, nil)
}

// RestartService restarts the printer's host service.
func (c *Client) RestartService(ctx context.Context) error {
	return c.do(ctx, CmdRestartService, nil, nil)
}

// Reboot reboots the printer host.
func (c *Client) Reboot(ctx context.Context) error {
	return c.do(ctx, CmdReboot, nil, nil)
}

// Shutdown powers the printer host off.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.do(ctx, CmdShutdown, nil, nil)
}

// PrinterState reports whether a print job is running.
func (c *Client) PrinterState(ctx context.Context) (PrinterState, error) {
	var resp printerResponse
	if err := c.do(ctx, CmdPrinterState, nil, &resp); err != nil {
		return PrinterState{}, err
	}
	return PrinterState{Printing: resp.State.Flags.Printing, State: resp.State.Text}, nil
}

// Settings fetches the panel settings.
func (c *Client) Settings(ctx context.Context) (Settings, error) {
	var s Settings
	err := c.do(ctx, CmdSettings, nil, &s)
	return s, err
}

// SaveSettings persists the panel settings.
func (c *Client) SaveSettings(ctx context.Context, s Settings) error {
	return c.do(ctx, CmdSaveSettings, s, nil)
}

// SetAutoShutdown turns shutdown-after-print on or off.
func (c *Client) SetAutoShutdown(ctx context.Context, enabled bool) error {
	return c.do(ctx, OnOff(enabled, CmdAutoShutdownOn, CmdAutoShutdownOff), nil, nil)
}

// do sends the request for cmd, encoding body as JSON when non-nil and
// decoding the response into out when non-nil.
func (c *Client) do(ctx context.Context, cmd string, body, out interface{}) error {
	route, ok := Routes[cmd]
	if !ok {
		return errors.New(errors.ErrDevice, "Unknown device command: "+cmd, "")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrDevice, "Couldn't encode "+cmd+" request", "")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, c.base+route.Path, reader)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrDevice,
			"Couldn't build "+cmd+" request",
			"Check device.url in your .lui.yaml")
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrDevice,
			fmt.Sprintf("Can't reach the printer at %s", c.base),
			"Check the printer is on and device.url is right")
	}
	defer resp.Body.Close()

	c.log.Debug("device %s %s -> %d (%s)", route.Method, route.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return statusError(cmd, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.ErrDevice,
			"Printer sent an unreadable "+cmd+" response", "")
	}
	return nil
}

func statusError(cmd string, status int, body string) error {
	msg := fmt.Sprintf("%s failed: HTTP %d", cmd, status)
	if body != "" {
		msg += " (" + body + ")"
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.New(errors.ErrDevice, msg, "Check device.api_key in your .lui.yaml")
	case http.StatusNotFound:
		return errors.New(errors.ErrDevice, msg, "Is the lui plugin installed on the printer?")
	case http.StatusConflict:
		return errors.New(errors.ErrDevice, msg, "The printer refused the command in its current state")
	default:
		return errors.New(errors.ErrDevice, msg, "")
	}
}
