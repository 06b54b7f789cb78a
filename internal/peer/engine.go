package peer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"couplecall/internal/entity"
	"couplecall/internal/usecase"
	"couplecall/pkg/logger"
)

// Engine is the local call state machine. Ticks and user intents are serialized; transport
// callbacks only touch the candidate queue and the trigger.
type Engine struct {
	id       entity.Identity
	sig      Signaling
	sessions SessionFactory
	media    MediaSource
	l        logger.Interface

	interval         time.Duration
	unreachableAfter int
	trigger          chan struct{}

	opMu sync.Mutex
	// Guarded by opMu.
	state          State
	role           entity.Role
	callID         string
	kind           entity.CallKind
	session        Session
	remoteSet      bool
	applied        map[entity.Candidate]struct{}
	offerPending   string
	answerPending  string
	connectPending bool
	dismissed      string
	failures       int
	unreachable    bool
	outbox         []Event

	candMu  sync.Mutex
	gen     uint64
	pending []entity.Candidate

	mediaMu sync.Mutex
	stream  Media
	audioOn bool
	videoOn bool

	snapMu sync.RWMutex
	snap   Snapshot

	listenersMu sync.RWMutex
	listeners   []func(Event)
}

// New -.
func New(id entity.Identity, sig Signaling, sessions SessionFactory, media MediaSource, l logger.Interface, opts ...Option) *Engine {
	e := &Engine{
		id:               id,
		sig:              sig,
		sessions:         sessions,
		media:            media,
		l:                l,
		interval:         _defaultInterval,
		unreachableAfter: _defaultUnreachableAfter,
		trigger:          make(chan struct{}, 1),
		role:             entity.RoleNone,
		applied:          make(map[entity.Candidate]struct{}),
		audioOn:          true,
		videoOn:          true,
	}

	// Custom options
	for _, opt := range opts {
		opt(e)
	}

	e.snap = Snapshot{
		State:        Idle,
		Role:         entity.RoleNone,
		PartnerID:    id.PartnerID,
		AudioEnabled: true,
		VideoEnabled: true,
	}

	return e
}

// OnEvent registers fn for every engine event. fn runs outside the engine lock and may call
// back into the engine.
func (e *Engine) OnEvent(fn func(Event)) {
	e.listenersMu.Lock()
	defer e.listenersMu.Unlock()

	e.listeners = append(e.listeners, fn)
}

// Snapshot -.
func (e *Engine) Snapshot() Snapshot {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()

	return e.snap
}

// Trigger asks Run for an early tick.
func (e *Engine) Trigger() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// Run ticks every interval, or earlier when triggered, until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		if err := e.Tick(ctx); err != nil && ctx.Err() == nil {
			e.l.Debug(err, "peer - Run")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-e.trigger:
		}
	}
}

// Tick fetches the record once and applies whatever became true since the last tick.
// A failed fetch changes nothing.
func (e *Engine) Tick(ctx context.Context) error {
	e.lock()
	defer e.unlock()

	rec, err := e.sig.Fetch(ctx)
	if err != nil {
		e.fetchFailed(err)

		return fmt.Errorf("Engine - Tick - e.sig.Fetch: %w", err)
	}

	e.failures = 0
	e.unreachable = false

	e.reconcile(ctx, rec)

	return nil
}

// Start places a call to the partner.
func (e *Engine) Start(ctx context.Context, kind entity.CallKind) error {
	if _, err := entity.ParseCallKind(string(kind)); err != nil {
		return err
	}

	e.lock()
	defer e.unlock()

	if e.state != Idle {
		return ErrBusy
	}

	session, err := e.prepare(ctx, kind)
	if err != nil {
		return err
	}

	offer, err := session.CreateOffer(ctx)
	if err != nil {
		e.release(session)
		e.emitMediaError(err)

		return fmt.Errorf("Engine - Start - session.CreateOffer: %w", err)
	}

	rec, err := e.startRecord(ctx, kind)
	if err != nil {
		e.release(session)

		return fmt.Errorf("Engine - Start - e.startRecord: %w", err)
	}

	if rec.CallerID != e.id.LocalID {
		e.release(session)
		e.observeIdle(ctx, &rec)

		if e.state == Incoming {
			return ErrPartnerCalling
		}

		return ErrBusy
	}

	e.session = session
	e.role = entity.RoleCaller
	e.callID = rec.CallID
	e.kind = kind
	e.offerPending = offer
	e.setState(Outgoing)

	e.flush(ctx)
	e.publishCandidates(ctx)

	return nil
}

// Accept answers the ringing call.
func (e *Engine) Accept(ctx context.Context) error {
	e.lock()
	defer e.unlock()

	if e.state != Incoming {
		return ErrNoIncomingCall
	}

	rec, err := e.sig.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("Engine - Accept - e.sig.Fetch: %w", err)
	}

	if rec == nil || rec.CallID != e.callID {
		e.teardown()

		if rec != nil {
			e.observeIdle(ctx, rec)
		}

		return ErrCallGone
	}

	if rec.Offer == "" {
		return ErrOfferNotReady
	}

	session, err := e.prepare(ctx, e.kind)
	if err != nil {
		e.decline(ctx)

		return err
	}

	answer, err := session.AcceptOffer(ctx, rec.Offer)
	if err != nil {
		e.release(session)
		e.emitMediaError(err)
		e.decline(ctx)

		return fmt.Errorf("Engine - Accept - session.AcceptOffer: %w", err)
	}

	e.session = session
	e.remoteSet = true
	e.answerPending = answer
	e.connectPending = true
	e.setState(Active)

	e.flush(ctx)
	e.applyRemote(rec)
	e.publishCandidates(ctx)

	return nil
}

// Hangup ends the call in any state. The record is cleared first so the partner learns about
// it on its next poll; local resources are released even when that fails.
func (e *Engine) Hangup(ctx context.Context) error {
	e.lock()
	defer e.unlock()

	callID := e.callID
	err := e.sig.End(ctx)

	e.teardown()

	if err != nil {
		e.dismissed = callID

		return fmt.Errorf("Engine - Hangup - e.sig.End: %w", err)
	}

	return nil
}

// ToggleAudio flips the microphone and reports whether it is now on.
func (e *Engine) ToggleAudio() bool {
	e.mediaMu.Lock()
	e.audioOn = !e.audioOn
	on := e.audioOn

	if e.stream != nil {
		e.stream.SetAudioEnabled(on)
	}
	e.mediaMu.Unlock()

	e.snapMu.Lock()
	e.snap.AudioEnabled = on
	e.snapMu.Unlock()

	return on
}

// ToggleVideo flips the camera and reports whether it is now on.
func (e *Engine) ToggleVideo() bool {
	e.mediaMu.Lock()
	e.videoOn = !e.videoOn
	on := e.videoOn

	if e.stream != nil {
		e.stream.SetVideoEnabled(on)
	}
	e.mediaMu.Unlock()

	e.snapMu.Lock()
	e.snap.VideoEnabled = on
	e.snapMu.Unlock()

	return on
}

func (e *Engine) reconcile(ctx context.Context, rec *entity.CallRecord) {
	if e.state != Idle && (rec == nil || rec.CallID != e.callID) {
		e.teardown()
	}

	switch e.state {
	case Idle:
		e.observeIdle(ctx, rec)

	case Incoming:
		// Waiting for the user.

	case Outgoing:
		e.flush(ctx)

		if rec.Answer == "" || rec.Offer == "" || e.offerPending != "" {
			break
		}

		if err := e.session.ApplyAnswer(rec.Answer); err != nil {
			e.emitMediaError(err)
			e.l.Error(err, "peer - reconcile - apply answer")
			e.endBroken(ctx)

			return
		}

		e.remoteSet = true
		e.setState(Active)

	case Active:
		e.flush(ctx)
	}

	if e.remoteSet && rec != nil {
		e.applyRemote(rec)
	}

	e.publishCandidates(ctx)
}

// observeIdle decides what an idle engine does with a record it did not create this run.
func (e *Engine) observeIdle(ctx context.Context, rec *entity.CallRecord) {
	if rec == nil {
		e.dismissed = ""

		return
	}

	switch {
	case rec.CallID == e.dismissed:
		e.l.Debug("peer - retrying end of dismissed call %s", rec.CallID)
		e.endStale(ctx)

	case entity.DeriveRole(rec, e.id.LocalID) == entity.RoleCaller:
		e.l.Info("peer - clearing call %s left over by this peer", rec.CallID)
		e.endStale(ctx)

	case rec.Status == entity.StatusConnected:
		e.l.Info("peer - clearing connected call %s nobody is in", rec.CallID)
		e.endStale(ctx)

	default:
		e.role = entity.RoleCallee
		e.callID = rec.CallID
		e.kind = rec.Kind
		e.setState(Incoming)
		e.emit(Event{Type: EventRinging, State: Incoming, CallID: rec.CallID, Kind: rec.Kind})
	}
}

// startRecord creates the call record. A record of ours that already carries an offer is a
// leftover from an earlier run; it is cleared and the start retried once.
func (e *Engine) startRecord(ctx context.Context, kind entity.CallKind) (entity.CallRecord, error) {
	rec, err := e.sig.Start(ctx, kind)
	if err != nil {
		return entity.CallRecord{}, err
	}

	// A leftover of our own is adopted only while it still matches the new attempt.
	if rec.CallerID != e.id.LocalID || (rec.Offer == "" && rec.Kind == kind) {
		return rec, nil
	}

	e.l.Info("peer - replacing call %s left over by this peer", rec.CallID)

	if err = e.sig.End(ctx); err != nil {
		return entity.CallRecord{}, err
	}

	return e.sig.Start(ctx, kind)
}

// prepare acquires media and opens a transport session for a new call attempt.
func (e *Engine) prepare(ctx context.Context, kind entity.CallKind) (Session, error) {
	stream, err := e.media.Acquire(ctx, kind)
	if err != nil {
		e.emitMediaError(err)

		return nil, fmt.Errorf("Engine - prepare - e.media.Acquire: %w", err)
	}

	e.mediaMu.Lock()
	e.stream = stream
	stream.SetAudioEnabled(e.audioOn)
	stream.SetVideoEnabled(e.videoOn)
	e.mediaMu.Unlock()

	gen := e.newGeneration()

	session, err := e.sessions.NewSession(kind, stream, func(c entity.Candidate) {
		e.queueCandidate(gen, c)
	})
	if err != nil {
		e.stopMedia()
		e.emitMediaError(err)

		return nil, fmt.Errorf("Engine - prepare - e.sessions.NewSession: %w", err)
	}

	return session, nil
}

// flush re-sends writes that were accepted locally but not yet by the store.
func (e *Engine) flush(ctx context.Context) {
	if e.offerPending != "" {
		err := e.sig.SetOffer(ctx, e.callID, e.offerPending)
		if !e.settled(err, "offer") {
			return
		}

		e.offerPending = ""
	}

	if e.answerPending != "" {
		err := e.sig.SetAnswer(ctx, e.callID, e.answerPending)
		if !e.settled(err, "answer") {
			return
		}

		e.answerPending = ""
	}

	if e.connectPending {
		err := e.sig.Connect(ctx, e.callID)
		if !e.settled(err, "connect") {
			return
		}

		e.connectPending = false
	}
}

// settled reports whether a write needs no retry: it succeeded or can never succeed.
func (e *Engine) settled(err error, what string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, usecase.ErrNoCall),
		errors.Is(err, usecase.ErrConflict),
		errors.Is(err, usecase.ErrRoleMismatch):
		e.l.Warn("peer - %s for call %s rejected: %v", what, e.callID, err)

		return true
	default:
		e.l.Debug(err, "peer - %s for call %s will be retried", what, e.callID)

		return false
	}
}

func (e *Engine) publishCandidates(ctx context.Context) {
	if e.callID == "" || e.session == nil {
		return
	}

	e.candMu.Lock()
	batch, gen := e.pending, e.gen
	e.pending = nil
	e.candMu.Unlock()

	for i, c := range batch {
		err := e.sig.AppendCandidate(ctx, e.callID, e.role, c)
		if err == nil {
			continue
		}

		if errors.Is(err, usecase.ErrNoCall) {
			return
		}

		e.l.Debug(err, "peer - publishCandidates - will retry %d candidates", len(batch)-i)
		e.requeue(gen, batch[i:])

		return
	}
}

func (e *Engine) applyRemote(rec *entity.CallRecord) {
	for _, c := range rec.Candidates(e.role.Other()) {
		if _, ok := e.applied[c]; ok {
			continue
		}

		e.applied[c] = struct{}{}

		if err := e.session.AddCandidate(c); err != nil {
			e.l.Warn("peer - candidate for call %s not applied: %v", e.callID, err)
		}
	}
}

func (e *Engine) queueCandidate(gen uint64, c entity.Candidate) {
	e.candMu.Lock()
	if gen != e.gen {
		e.candMu.Unlock()

		return
	}
	e.pending = append(e.pending, c)
	e.candMu.Unlock()

	e.Trigger()
}

func (e *Engine) requeue(gen uint64, rest []entity.Candidate) {
	e.candMu.Lock()
	defer e.candMu.Unlock()

	if gen == e.gen {
		e.pending = append(append([]entity.Candidate{}, rest...), e.pending...)
	}
}

// newGeneration drops queued candidates and detaches callbacks of older sessions.
func (e *Engine) newGeneration() uint64 {
	e.candMu.Lock()
	defer e.candMu.Unlock()

	e.gen++
	e.pending = nil

	return e.gen
}

func (e *Engine) fetchFailed(err error) {
	if e.state == Idle {
		return
	}

	e.failures++

	if e.unreachableAfter > 0 && e.failures >= e.unreachableAfter && !e.unreachable {
		e.unreachable = true
		e.emit(Event{Type: EventPartnerUnreachable, State: e.state, CallID: e.callID, Kind: e.kind, Err: err})
	}
}

// decline clears the ringing record after a local failure so it does not ring again.
func (e *Engine) decline(ctx context.Context) {
	callID := e.callID

	if err := e.sig.End(ctx); err != nil {
		e.l.Warn("peer - decline call %s: %v", callID, err)
		e.teardown()
		e.dismissed = callID

		return
	}

	e.teardown()
}

func (e *Engine) endBroken(ctx context.Context) {
	callID := e.callID

	if err := e.sig.End(ctx); err != nil {
		e.teardown()
		e.dismissed = callID

		return
	}

	e.teardown()
}

func (e *Engine) endStale(ctx context.Context) {
	if err := e.sig.End(ctx); err != nil {
		e.l.Warn("peer - end stale call: %v", err)

		return
	}

	e.dismissed = ""
}

// teardown releases everything local and returns to Idle.
func (e *Engine) teardown() {
	e.release(e.session)
	e.setState(Idle)

	e.session = nil
	e.role = entity.RoleNone
	e.callID = ""
	e.kind = ""
	e.remoteSet = false
	e.applied = make(map[entity.Candidate]struct{})
	e.offerPending = ""
	e.answerPending = ""
	e.connectPending = false
	e.failures = 0
	e.unreachable = false

	e.mediaMu.Lock()
	e.audioOn, e.videoOn = true, true
	e.mediaMu.Unlock()
}

func (e *Engine) release(session Session) {
	if session != nil {
		if err := session.Close(); err != nil {
			e.l.Debug(err, "peer - release - session.Close")
		}
	}

	e.stopMedia()
	e.newGeneration()
}

func (e *Engine) stopMedia() {
	e.mediaMu.Lock()
	defer e.mediaMu.Unlock()

	if e.stream != nil {
		e.stream.Stop()
		e.stream = nil
	}
}

func (e *Engine) setState(s State) {
	if s == e.state {
		return
	}

	e.l.Debug("peer - %s -> %s (call %s)", e.state, s, e.callID)
	e.state = s
	e.emit(Event{Type: EventStateChanged, State: s, CallID: e.callID, Kind: e.kind})
}

func (e *Engine) emitMediaError(err error) {
	e.emit(Event{Type: EventMediaError, State: e.state, CallID: e.callID, Kind: e.kind, Err: err})
}

func (e *Engine) emit(ev Event) {
	e.outbox = append(e.outbox, ev)
}

func (e *Engine) lock() {
	e.opMu.Lock()
}

// unlock publishes the snapshot, releases the engine and then delivers queued events.
func (e *Engine) unlock() {
	e.mediaMu.Lock()
	audio, video := e.audioOn, e.videoOn
	e.mediaMu.Unlock()

	e.snapMu.Lock()
	e.snap = Snapshot{
		State:        e.state,
		Role:         e.role,
		CallID:       e.callID,
		Kind:         e.kind,
		PartnerID:    e.id.PartnerID,
		AudioEnabled: audio,
		VideoEnabled: video,
	}
	e.snapMu.Unlock()

	out := e.outbox
	e.outbox = nil
	e.opMu.Unlock()

	if len(out) == 0 {
		return
	}

	e.listenersMu.RLock()
	listeners := append([]func(Event){}, e.listeners...)
	e.listenersMu.RUnlock()

	for _, ev := range out {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}
