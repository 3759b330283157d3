package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"time"

	"timercraft/internal/core/model"
)

const clientTimeout = 5 * time.Second

// ErrNotRunning is returned when the control address refuses connections.
var ErrNotRunning = errors.New("no running instance")

// Client talks to the control API of a running instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the instance listening on address (host:port).
func NewClient(address string) *Client {
	return &Client{
		baseURL: "http://" + address,
		http:    &http.Client{Timeout: clientTimeout},
	}
}

// Trigger queues an action on the running instance.
func (client *Client) Trigger(ctx context.Context, action model.Action) error {
	url := fmt.Sprintf("%s/api/v1/actions/%s", client.baseURL, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("build trigger request: %w", err)
	}
	resp, err := client.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return responseError(resp)
	}
	return nil
}

// State returns the running instance's current state.
func (client *Client) State(ctx context.Context) (StateResponse, error) {
	var state StateResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/api/v1/state", nil)
	if err != nil {
		return state, fmt.Errorf("build state request: %w", err)
	}
	resp, err := client.http.Do(req)
	if err != nil {
		return state, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return state, responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return state, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}

// Actions returns up to limit recent actions from the running instance.
func (client *Client) Actions(ctx context.Context, limit int) ([]model.ActionRecord, error) {
	url := client.baseURL + "/api/v1/actions"
	if limit > 0 {
		url = fmt.Sprintf("%s?limit=%d", url, limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build actions request: %w", err)
	}
	resp, err := client.http.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}
	var body struct {
		Actions []model.ActionRecord `json:"actions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}
	return body.Actions, nil
}

// transportError reports ErrNotRunning only when nothing listens on the
// address. Timeouts and resets come back wrapped as they are.
func transportError(err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	return fmt.Errorf("control api: %w", err)
}

func responseError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return fmt.Errorf("control api: %s", resp.Status)
	}
	return fmt.Errorf("control api: %s: %s", resp.Status, body.Error)
}
