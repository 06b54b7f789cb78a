package peer

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
	"time"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
	"couplecall/pkg/signal"
)

const (
	// UserHeader carries the authenticated user id to the signaling endpoint.
	UserHeader = "X-User-ID"

	_defaultClientTimeout = 10 * time.Second
	_eventCall            = "call"
)

// StatusError is a non-2xx answer of the signaling endpoint.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("signaling endpoint: %d %s", e.Code, e.Message)
}

// Unwrap maps the endpoint's error messages back onto the sentinels the engine acts on.
func (e *StatusError) Unwrap() error {
	for _, s := range []error{
		usecase.ErrNoCall,
		usecase.ErrConflict,
		usecase.ErrNotReady,
		usecase.ErrRoleMismatch,
		usecase.ErrNotMember,
		usecase.ErrUnknownUser,
		usecase.ErrEmptySignal,
		usecase.ErrMixedSignal,
		entity.ErrInvalidKind,
	} {
		if strings.Contains(e.Message, s.Error()) {
			return s
		}
	}

	return nil
}

// Client talks to the signaling endpoint over HTTP on behalf of one user.
type Client struct {
	base   *url.URL
	userID string
	hc     *http.Client
}

var _ Signaling = (*Client)(nil)

// NewClient -.
func NewClient(baseURL, userID string) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("peer - NewClient - url.Parse: %w", err)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("peer - NewClient: unsupported scheme %q", base.Scheme)
	}

	return &Client{
		base:   base,
		userID: userID,
		hc:     &http.Client{Timeout: _defaultClientTimeout},
	}, nil
}

// Identity -.
func (c *Client) Identity(ctx context.Context) (entity.Identity, error) {
	var id entity.Identity

	if err := c.do(ctx, http.MethodGet, "/v1/me", nil, &id); err != nil {
		return entity.Identity{}, fmt.Errorf("Client - Identity: %w", err)
	}

	return id, nil
}

type callBody struct {
	Call *entity.CallRecord `json:"call"`
}

// Fetch -.
func (c *Client) Fetch(ctx context.Context) (*entity.CallRecord, error) {
	var body callBody

	if err := c.do(ctx, http.MethodGet, "/v1/call", nil, &body); err != nil {
		return nil, fmt.Errorf("Client - Fetch: %w", err)
	}

	return body.Call, nil
}

type request struct {
	Type      string           `json:"type"`
	Kind      entity.CallKind  `json:"kind,omitempty"`
	CallID    string           `json:"callId,omitempty"`
	Role      entity.Role      `json:"role,omitempty"`
	Offer     string           `json:"offer,omitempty"`
	Answer    string           `json:"answer,omitempty"`
	Candidate entity.Candidate `json:"candidate,omitempty"`
}

// Start -.
func (c *Client) Start(ctx context.Context, kind entity.CallKind) (entity.CallRecord, error) {
	var body callBody

	if err := c.do(ctx, http.MethodPost, "/v1/call", request{Type: "start", Kind: kind}, &body); err != nil {
		return entity.CallRecord{}, fmt.Errorf("Client - Start: %w", err)
	}

	if body.Call == nil {
		return entity.CallRecord{}, fmt.Errorf("Client - Start: empty call in response")
	}

	return *body.Call, nil
}

// SetOffer -.
func (c *Client) SetOffer(ctx context.Context, callID, sdp string) error {
	return c.post(ctx, "SetOffer", request{Type: "signal", CallID: callID, Role: entity.RoleCaller, Offer: sdp})
}

// SetAnswer -.
func (c *Client) SetAnswer(ctx context.Context, callID, sdp string) error {
	return c.post(ctx, "SetAnswer", request{Type: "signal", CallID: callID, Role: entity.RoleCallee, Answer: sdp})
}

// AppendCandidate -.
func (c *Client) AppendCandidate(ctx context.Context, callID string, role entity.Role, cand entity.Candidate) error {
	return c.post(ctx, "AppendCandidate", request{Type: "signal", CallID: callID, Role: role, Candidate: cand})
}

// Connect -.
func (c *Client) Connect(ctx context.Context, callID string) error {
	return c.post(ctx, "Connect", request{Type: "answer", CallID: callID})
}

// End -.
func (c *Client) End(ctx context.Context) error {
	return c.post(ctx, "End", request{Type: "end"})
}

// Watch subscribes to the couple's call events and calls fn for each until ctx is done or the
// connection drops. Events only hint that the record changed; Fetch stays authoritative.
func (c *Client) Watch(ctx context.Context, fn func(entity.CallEvent)) error {
	u := *c.base
	u.Path += "/v1/call/watch"

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	header := http.Header{}
	header.Set(UserHeader, c.userID)

	s, err := signal.Dial(ctx, u.String(), header)
	if err != nil {
		return fmt.Errorf("Client - Watch - signal.Dial: %w", err)
	}

	s.OnMessage = func(m *signal.Message) {
		var ev entity.CallEvent
		if m.Event != _eventCall || json.Unmarshal(m.Data, &ev) != nil {
			return
		}

		fn(ev)
	}

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	go func() {
		_ = s.WriteLoop()
	}()

	err = s.ReadLoop()
	s.Close()

	if err != nil {
		return fmt.Errorf("Client - Watch - s.ReadLoop: %w", err)
	}

	return ctx.Err()
}

func (c *Client) post(ctx context.Context, op string, req request) error {
	if err := c.do(ctx, http.MethodPost, "/v1/call", req, nil); err != nil {
		return fmt.Errorf("Client - %s: %w", op, err)
	}

	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader

	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set(UserHeader, c.userID)

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("c.hc.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e errorBody
		if err = json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}

		return &StatusError{Code: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}

// IsUnauthorized -.
func IsUnauthorized(err error) bool {
	var se *StatusError

	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}
