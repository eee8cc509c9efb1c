package daemon

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/actions"
	"github.com/grovetools/kakapo/pkg/sounds"
)

// RemoteClient implements Client by calling the daemon's HTTP API over a Unix socket.
type RemoteClient struct {
	httpClient *http.Client
	socketPath string
	baseURL    string
}

// baseURL is the dummy host used for Unix socket HTTP requests.
// The actual connection goes through the Unix socket, not this URL.
const baseURL = "http://unix"

// NewRemoteClient creates a new RemoteClient connected to the daemon socket.
func NewRemoteClient(socketPath string) (*RemoteClient, error) {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}

	return &RemoteClient{
		httpClient: &http.Client{Transport: transport, Timeout: 30 * time.Second},
		socketPath: socketPath,
		baseURL:    baseURL,
	}, nil
}

// NewHTTPClient points a RemoteClient at a TCP base URL such as a daemon
// started with server.listen. hc may be nil.
func NewHTTPClient(url string, hc *http.Client) *RemoteClient {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteClient{httpClient: hc, socketPath: url, baseURL: strings.TrimSuffix(url, "/")}
}

// Sounds returns the daemon's collection.
func (c *RemoteClient) Sounds(ctx context.Context) (sounds.Snapshot, error) {
	var snap sounds.Snapshot
	err := c.do(ctx, http.MethodGet, "/api/sounds", nil, &snap)
	return snap, err
}

// Dispatch posts the command to /api/actions. Init is bounded by ctx and the
// daemon's catalog.timeout rather than the client timeout.
func (c *RemoteClient) Dispatch(ctx context.Context, cmd actions.Command) (actions.Action, error) {
	hc := c.httpClient
	if _, ok := cmd.(actions.InitCommand); ok {
		hc = c.untimed()
	}
	var action actions.Action
	err := c.doWith(ctx, hc, http.MethodPost, "/api/actions", actions.NewRequest(cmd), &action)
	return action, err
}

// Config returns the daemon's running configuration.
func (c *RemoteClient) Config(ctx context.Context) (*RunningConfig, error) {
	var cfg RunningConfig
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *RemoteClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	return c.doWith(ctx, c.httpClient, method, path, body, out)
}

// untimed shares the transport but drops the client timeout.
func (c *RemoteClient) untimed() *http.Client {
	return &http.Client{Transport: c.httpClient.Transport}
}

// doWith sends body as JSON and decodes the response into out. Non-2xx
// replies carrying a KakapoError body are returned as that error.
func (c *RemoteClient) doWith(ctx context.Context, hc *http.Client, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return errors.DaemonUnavailable(c.socketPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var kerr errors.KakapoError
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &kerr) == nil && kerr.Code != "" {
			return &kerr
		}
		return fmt.Errorf("daemon returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// IsRunning returns true if the daemon is available and responding.
func (c *RemoteClient) IsRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Stream subscribes to collection updates via Server-Sent Events (SSE).
func (c *RemoteClient) Stream(ctx context.Context) (<-chan Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/stream", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream request: %w", err)
	}

	// Streaming must not inherit the request timeout.
	resp, err := c.untimed().Do(req)
	if err != nil {
		return nil, errors.DaemonUnavailable(c.socketPath, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	ch := make(chan Event, 10)
	go func() {
		defer resp.Body.Close()
		defer close(ch)

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
				continue
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Close cleans up any resources used by the client.
func (c *RemoteClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

var _ Client = (*RemoteClient)(nil)
