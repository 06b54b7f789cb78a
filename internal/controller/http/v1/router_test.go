package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "couplecall/internal/controller/http/v1"
	"couplecall/internal/entity"
	"couplecall/internal/usecase"
	"couplecall/internal/usecase/broker"
	"couplecall/internal/usecase/repo"
	"couplecall/pkg/logger"
	"couplecall/pkg/signal"
)

var _t0 = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

type server struct {
	handler *gin.Engine
	uc      *usecase.SignalingUseCase
}

func newServer(t *testing.T) *server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	couples, err := repo.NewStaticCouples([]entity.Couple{
		{ID: "c1", Members: [2]string{"alice", "bob"}},
		{ID: "c2", Members: [2]string{"carol", "dave"}},
	})
	require.NoError(t, err)

	hub := broker.NewHub()
	ids := 0
	uc := usecase.New(repo.NewCallMemory(), couples, hub, logger.Nop(),
		usecase.Clock(func() time.Time { return _t0 }),
		usecase.IDGenerator(func() string {
			ids++

			return fmt.Sprintf("call-%d", ids)
		}),
	)

	handler := gin.New()
	v1.NewRouter(handler, logger.Nop(), uc, hub)

	return &server{handler: handler, uc: uc}
}

func (s *server) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if user != "" {
		req.Header.Set(v1.UserHeader, user)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	return w
}

func indent(t *testing.T, body []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.Indent(&buf, body, "", "  "))

	return buf.Bytes()
}

func TestHealthz(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMe(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/v1/me", "bob", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"localId":"bob","partnerId":"alice","coupleId":"c1"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/v1/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/v1/me", "mallory", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCallWireFormat(t *testing.T) {
	s := newServer(t)
	g := goldie.New(t)

	w := s.do(t, http.MethodGet, "/v1/call", "alice", "")
	require.Equal(t, http.StatusOK, w.Code)
	g.Assert(t, "no_call", indent(t, w.Body.Bytes()))

	w = s.do(t, http.MethodPost, "/v1/call", "alice", `{"type":"start","kind":"video"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/v1/call", "alice",
		`{"type":"signal","callId":"call-1","role":"caller","offer":"v=0 offer"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/v1/call", "alice",
		`{"type":"signal","callId":"call-1","role":"caller","candidate":"cand-a"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/v1/call", "bob", "")
	require.Equal(t, http.StatusOK, w.Code)
	g.Assert(t, "ringing_call", indent(t, w.Body.Bytes()))
}

func TestCallFlowOverHTTP(t *testing.T) {
	s := newServer(t)

	steps := []struct {
		name string
		user string
		body string
		code int
	}{
		{"start", "alice", `{"type":"start","kind":"audio"}`, http.StatusOK},
		{"partner start loses", "bob", `{"type":"start","kind":"video"}`, http.StatusOK},
		{"answer too early", "bob", `{"type":"answer","callId":"call-1"}`, http.StatusConflict},
		{"offer", "alice", `{"type":"signal","callId":"call-1","role":"caller","offer":"o"}`, http.StatusOK},
		{"conflicting offer", "alice", `{"type":"signal","callId":"call-1","role":"caller","offer":"x"}`, http.StatusConflict},
		{"callee answer", "bob", `{"type":"signal","callId":"call-1","role":"callee","answer":"a"}`, http.StatusOK},
		{"caller cannot answer", "alice", `{"type":"answer","callId":"call-1"}`, http.StatusForbidden},
		{"stale call", "bob", `{"type":"answer","callId":"call-0"}`, http.StatusNotFound},
		{"answer", "bob", `{"type":"answer","callId":"call-1"}`, http.StatusOK},
		{"end", "alice", `{"type":"end"}`, http.StatusOK},
		{"end again", "bob", `{"type":"end"}`, http.StatusOK},
	}

	for _, step := range steps {
		w := s.do(t, http.MethodPost, "/v1/call", step.user, step.body)
		require.Equal(t, step.code, w.Code, "%s: %s", step.name, w.Body.String())

		if step.name == "partner start loses" {
			var resp struct {
				Call entity.CallRecord `json:"call"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "alice", resp.Call.CallerID)
			assert.Equal(t, entity.KindAudio, resp.Call.Kind)
		}

		if step.name == "answer" {
			assert.Contains(t, w.Body.String(), `"status":"connected"`)
		}
	}

	w := s.do(t, http.MethodGet, "/v1/call", "bob", "")
	assert.JSONEq(t, `{"call":null}`, w.Body.String())
}

func TestBadRequests(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"not json", `{`, http.StatusBadRequest},
		{"missing type", `{"kind":"video"}`, http.StatusBadRequest},
		{"unknown type", `{"type":"dance"}`, http.StatusBadRequest},
		{"bad kind", `{"type":"start","kind":"hologram"}`, http.StatusBadRequest},
		{"empty signal", `{"type":"signal","role":"caller"}`, http.StatusBadRequest},
		{"signal without call", `{"type":"signal","role":"caller","candidate":"c"}`, http.StatusNotFound},
		{"offer with candidate", `{"type":"signal","role":"caller","offer":"o","candidate":"c"}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		w := s.do(t, http.MethodPost, "/v1/call", "alice", tc.body)
		assert.Equal(t, tc.code, w.Code, tc.name)
		assert.Contains(t, w.Body.String(), `"error"`, tc.name)
	}
}

// flakyRead fails every Current call once armed.
type flakyRead struct {
	*usecase.SignalingUseCase
	armed bool
}

func (f *flakyRead) Current(ctx context.Context, userID string) (*entity.CallRecord, error) {
	if f.armed {
		return nil, errors.New("store down")
	}

	return f.SignalingUseCase.Current(ctx, userID)
}

func TestDo_ReReadFailureStillOK(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodPost, "/v1/call", "alice", `{"type":"start","kind":"audio"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	f := &flakyRead{SignalingUseCase: s.uc, armed: true}
	handler := gin.New()
	v1.NewRouter(handler, logger.Nop(), f, broker.NewHub())
	s.handler = handler

	w = s.do(t, http.MethodPost, "/v1/call", "alice", `{"type":"signal","callId":"call-1","role":"caller","offer":"o"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	f.armed = false

	rec, err := s.uc.Current(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "o", rec.Offer)
}

func TestWatch(t *testing.T) {
	s := newServer(t)

	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	header := http.Header{}
	header.Set(v1.UserHeader, "bob")

	sig, err := signal.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/call/watch", header)
	require.NoError(t, err)
	defer sig.Close()

	events := make(chan entity.CallEvent, 4)
	sig.OnMessage = func(m *signal.Message) {
		if m.Event != v1.EventCall {
			return
		}

		var ev entity.CallEvent
		if json.Unmarshal(m.Data, &ev) == nil {
			events <- ev
		}
	}

	go func() { _ = sig.WriteLoop() }()
	go func() { _ = sig.ReadLoop() }()

	// The subscription is registered after the upgrade; retry the write until it is seen.
	deadline := time.Now().Add(3 * time.Second)

	for {
		_, err = s.uc.Start(ctx, "alice", entity.KindVideo)
		require.NoError(t, err)

		select {
		case ev := <-events:
			assert.Equal(t, entity.EventStarted, ev.Type)
			assert.Equal(t, "c1", ev.CoupleID)
			assert.Equal(t, "alice", ev.ActorID)

			return
		case <-time.After(100 * time.Millisecond):
		}

		require.True(t, time.Now().Before(deadline), "no event pushed")
		require.NoError(t, s.uc.End(ctx, "alice"))
	}
}

func TestWatch_Unauthorized(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/v1/call/watch", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/v1/call/watch", "mallory", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
