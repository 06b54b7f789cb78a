package peer_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"couplecall/internal/entity"
	"couplecall/internal/peer"
	"couplecall/internal/usecase"
	"couplecall/internal/usecase/repo"
	"couplecall/pkg/logger"
)

var errStoreDown = errors.New("store unreachable")

type fakeSession struct {
	mu          sync.Mutex
	name        string
	onCandidate func(entity.Candidate)
	remoteOffer string
	answer      string
	applied     []entity.Candidate
	closed      int
	failAccept  error
}

func (s *fakeSession) CreateOffer(context.Context) (string, error) {
	return "offer:" + s.name, nil
}

func (s *fakeSession) AcceptOffer(_ context.Context, offer string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failAccept != nil {
		return "", s.failAccept
	}

	s.remoteOffer = offer

	return "answer:" + s.name, nil
}

func (s *fakeSession) ApplyAnswer(answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answer = answer

	return nil
}

func (s *fakeSession) AddCandidate(c entity.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = append(s.applied, c)

	return nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed++

	return nil
}

// emit plays the transport discovering a local candidate.
func (s *fakeSession) emit(c entity.Candidate) {
	s.onCandidate(c)
}

func (s *fakeSession) state() (remoteOffer, answer string, applied []entity.Candidate, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remoteOffer, s.answer, append([]entity.Candidate{}, s.applied...), s.closed
}

type fakeSessions struct {
	mu         sync.Mutex
	prefix     string
	all        []*fakeSession
	err        error
	failAccept error
}

func (f *fakeSessions) NewSession(_ entity.CallKind, _ peer.Media, onCandidate func(entity.Candidate)) (peer.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	s := &fakeSession{
		name:        fmt.Sprintf("%s-%d", f.prefix, len(f.all)+1),
		onCandidate: onCandidate,
		failAccept:  f.failAccept,
	}
	f.all = append(f.all, s)

	return s, nil
}

func (f *fakeSessions) last() *fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.all) == 0 {
		return nil
	}

	return f.all[len(f.all)-1]
}

func (f *fakeSessions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.all)
}

type fakeMedia struct {
	mu      sync.Mutex
	audio   bool
	video   bool
	stopped bool
}

func (m *fakeMedia) SetAudioEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.audio = on
}

func (m *fakeMedia) SetVideoEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.video = on
}

func (m *fakeMedia) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
}

func (m *fakeMedia) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stopped
}

type fakeDevices struct {
	mu  sync.Mutex
	all []*fakeMedia
	err error
}

func (d *fakeDevices) Acquire(context.Context, entity.CallKind) (peer.Media, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return nil, d.err
	}

	m := &fakeMedia{}
	d.all = append(d.all, m)

	return m, nil
}

func (d *fakeDevices) last() *fakeMedia {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.all) == 0 {
		return nil
	}

	return d.all[len(d.all)-1]
}

// flaky fails selected calls of the wrapped signaling on demand.
type flaky struct {
	peer.Signaling

	mu       sync.Mutex
	fetchErr error
	offerErr error
	endErr   error
}

func (f *flaky) set(fn func(f *flaky)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fn(f)
}

func (f *flaky) Fetch(ctx context.Context) (*entity.CallRecord, error) {
	f.mu.Lock()
	err := f.fetchErr
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return f.Signaling.Fetch(ctx)
}

func (f *flaky) SetOffer(ctx context.Context, callID, sdp string) error {
	f.mu.Lock()
	err := f.offerErr
	f.mu.Unlock()

	if err != nil {
		return err
	}

	return f.Signaling.SetOffer(ctx, callID, sdp)
}

func (f *flaky) End(ctx context.Context) error {
	f.mu.Lock()
	err := f.endErr
	f.mu.Unlock()

	if err != nil {
		return err
	}

	return f.Signaling.End(ctx)
}

type eventLog struct {
	mu     sync.Mutex
	events []peer.Event
}

func (l *eventLog) add(ev peer.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, ev)
}

func (l *eventLog) count(t peer.EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0

	for _, ev := range l.events {
		if ev.Type == t {
			n++
		}
	}

	return n
}

func (l *eventLog) states() []peer.State {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []peer.State

	for _, ev := range l.events {
		if ev.Type == peer.EventStateChanged {
			out = append(out, ev.State)
		}
	}

	return out
}

// side is one member of the couple with a fully faked device stack.
type side struct {
	e        *peer.Engine
	sig      *flaky
	sessions *fakeSessions
	devices  *fakeDevices
	events   *eventLog
}

func newSide(uc usecase.Signaling, local, partner string, opts ...peer.Option) *side {
	s := &side{
		sig:      &flaky{Signaling: peer.NewLocal(uc, local)},
		sessions: &fakeSessions{prefix: local},
		devices:  &fakeDevices{},
		events:   &eventLog{},
	}

	id := entity.Identity{LocalID: local, PartnerID: partner, CoupleID: "c1"}
	s.e = peer.New(id, s.sig, s.sessions, s.devices, logger.Nop(), opts...)
	s.e.OnEvent(s.events.add)

	return s
}

// couple wires alice and bob to one in-process signaling use case.
func couple(t *testing.T, opts ...peer.Option) (alice, bob *side, uc *usecase.SignalingUseCase) {
	t.Helper()

	couples, err := repo.NewStaticCouples([]entity.Couple{{ID: "c1", Members: [2]string{"alice", "bob"}}})
	require.NoError(t, err)

	uc = usecase.New(repo.NewCallMemory(), couples, nil, logger.Nop())

	return newSide(uc, "alice", "bob", opts...), newSide(uc, "bob", "alice", opts...), uc
}

func current(t *testing.T, uc usecase.Signaling) *entity.CallRecord {
	t.Helper()

	rec, err := uc.Current(context.Background(), "alice")
	require.NoError(t, err)

	return rec
}
