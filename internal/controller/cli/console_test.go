package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"couplecall/internal/entity"
	"couplecall/internal/peer"
	"couplecall/pkg/logger"
)

type fakeControls struct {
	started  []entity.CallKind
	startErr error
	accepted int
	hungUp   int
	audio    bool
	video    bool
}

func (f *fakeControls) Start(_ context.Context, kind entity.CallKind) error {
	f.started = append(f.started, kind)

	return f.startErr
}

func (f *fakeControls) Accept(context.Context) error {
	f.accepted++

	return peer.ErrOfferNotReady
}

func (f *fakeControls) Hangup(context.Context) error {
	f.hungUp++

	return nil
}

func (f *fakeControls) ToggleAudio() bool {
	f.audio = !f.audio

	return f.audio
}

func (f *fakeControls) ToggleVideo() bool {
	f.video = !f.video

	return f.video
}

func (f *fakeControls) Snapshot() peer.Snapshot {
	return peer.Snapshot{State: peer.Active, Role: entity.RoleCaller, CallID: "call-1", Kind: entity.KindVideo}
}

func TestConsole_Exec(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		line  string
		quit  bool
		out   string
		check func(t *testing.T, f *fakeControls)
	}{
		{name: "empty", line: "   "},
		{
			name:  "call defaults to audio",
			line:  "call",
			check: func(t *testing.T, f *fakeControls) { assert.Equal(t, []entity.CallKind{entity.KindAudio}, f.started) },
		},
		{
			name:  "call video",
			line:  "CALL video",
			check: func(t *testing.T, f *fakeControls) { assert.Equal(t, []entity.CallKind{entity.KindVideo}, f.started) },
		},
		{
			name:  "call bad kind",
			line:  "call fax",
			out:   "invalid call kind",
			check: func(t *testing.T, f *fakeControls) { assert.Empty(t, f.started) },
		},
		{
			name:  "answer before the offer",
			line:  "a",
			out:   "still being set up",
			check: func(t *testing.T, f *fakeControls) { assert.Equal(t, 1, f.accepted) },
		},
		{
			name:  "hangup",
			line:  "hangup",
			check: func(t *testing.T, f *fakeControls) { assert.Equal(t, 1, f.hungUp) },
		},
		{name: "mute", line: "mute", out: "microphone on"},
		{name: "camera", line: "v", out: "camera on"},
		{name: "status", line: "status", out: "state=active role=caller call=call-1 kind=video"},
		{name: "help", line: "help", out: "call [audio|video]"},
		{name: "unknown", line: "dance", out: `unknown command "dance"`},
		{name: "quit", line: "quit", quit: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer

			f := &fakeControls{}
			c := newConsole(f, "bob", &out, logger.Nop())

			assert.Equal(t, tc.quit, c.exec(ctx, tc.line))

			if tc.out != "" {
				assert.Contains(t, out.String(), tc.out)
			}

			if tc.check != nil {
				tc.check(t, f)
			}
		})
	}
}

func TestConsole_PartnerCalledFirst(t *testing.T) {
	var out bytes.Buffer

	f := &fakeControls{startErr: peer.ErrPartnerCalling}
	c := newConsole(f, "bob", &out, logger.Nop())

	assert.NoError(t, c.dial(context.Background(), entity.KindAudio))
	assert.Contains(t, out.String(), "bob called first")
}

func TestConsole_Events(t *testing.T) {
	var out bytes.Buffer

	c := newConsole(&fakeControls{}, "bob", &out, logger.Nop())

	c.onEvent(peer.Event{Type: peer.EventRinging, State: peer.Incoming, Kind: entity.KindVideo})
	c.onEvent(peer.Event{Type: peer.EventStateChanged, State: peer.Active})
	c.onEvent(peer.Event{Type: peer.EventMediaError, Err: errors.New("no camera")})
	c.onEvent(peer.Event{Type: peer.EventPartnerUnreachable, Err: errors.New("timeout")})
	c.onEvent(peer.Event{Type: peer.EventStateChanged, State: peer.Idle})

	assert.Equal(t, `bob is calling (video). Type "answer" or "hangup".
call connected with bob
media problem: no camera
connection problems, still trying: timeout
call ended
`, out.String())
}

func TestAnswerPeriod(t *testing.T) {
	assert.Equal(t, time.Second, answerPeriod(2*time.Second))
	assert.Equal(t, time.Millisecond, answerPeriod(time.Nanosecond))
	assert.Equal(t, time.Millisecond, answerPeriod(0))
}
