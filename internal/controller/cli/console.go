package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"couplecall/internal/entity"
	"couplecall/internal/peer"
	"couplecall/pkg/logger"
)

// controls is the part of the engine the console drives.
type controls interface {
	Start(ctx context.Context, kind entity.CallKind) error
	Accept(ctx context.Context) error
	Hangup(ctx context.Context) error
	ToggleAudio() bool
	ToggleVideo() bool
	Snapshot() peer.Snapshot
}

const _help = `commands:
  call [audio|video]  call the partner
  answer              accept the ringing call
  hangup              end or decline the call
  mute                toggle the microphone
  camera              toggle the camera
  status              show the call state
  quit                hang up and exit`

type console struct {
	c       controls
	partner string
	l       logger.Interface

	mu  sync.Mutex
	out io.Writer
}

func newConsole(c controls, partner string, out io.Writer, l logger.Interface) *console {
	return &console{c: c, partner: partner, out: out, l: l}
}

func (c *console) printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, format+"\n", args...)
}

// onEvent prints engine events.
func (c *console) onEvent(ev peer.Event) {
	switch ev.Type {
	case peer.EventRinging:
		c.printf("%s is calling (%s). Type \"answer\" or \"hangup\".", c.partner, ev.Kind)
	case peer.EventStateChanged:
		c.printf("call %s", describe(ev.State, c.partner))
	case peer.EventMediaError:
		c.printf("media problem: %v", ev.Err)
	case peer.EventPartnerUnreachable:
		c.printf("connection problems, still trying: %v", ev.Err)
	}
}

func describe(s peer.State, partner string) string {
	switch s {
	case peer.Idle:
		return "ended"
	case peer.Outgoing:
		return "ringing " + partner
	case peer.Incoming:
		return "incoming from " + partner
	case peer.Active:
		return "connected with " + partner
	default:
		return s.String()
	}
}

// exec runs one typed command and reports whether the console should exit.
func (c *console) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "call", "c":
		kind := entity.KindAudio
		if len(fields) > 1 {
			k, err := entity.ParseCallKind(fields[1])
			if err != nil {
				c.printf("%v", err)

				return false
			}

			kind = k
		}

		c.report(c.dial(ctx, kind))

	case "answer", "a":
		c.report(c.c.Accept(ctx))

	case "hangup", "h":
		c.report(c.c.Hangup(ctx))

	case "mute", "m":
		if c.c.ToggleAudio() {
			c.printf("microphone on")
		} else {
			c.printf("microphone off")
		}

	case "camera", "v":
		if c.c.ToggleVideo() {
			c.printf("camera on")
		} else {
			c.printf("camera off")
		}

	case "status", "s":
		snap := c.c.Snapshot()
		c.printf("state=%s role=%s call=%s kind=%s audio=%t video=%t",
			snap.State, snap.Role, snap.CallID, snap.Kind, snap.AudioEnabled, snap.VideoEnabled)

	case "quit", "q", "exit":
		return true

	case "help", "?":
		c.printf(_help)

	default:
		c.printf("unknown command %q, try \"help\"", fields[0])
	}

	return false
}

func (c *console) dial(ctx context.Context, kind entity.CallKind) error {
	err := c.c.Start(ctx, kind)
	if errors.Is(err, peer.ErrPartnerCalling) {
		c.printf("%s called first. Type \"answer\" to take the call.", c.partner)

		return nil
	}

	return err
}

func (c *console) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, peer.ErrOfferNotReady):
		c.printf("the call is still being set up, try again in a moment")
	case errors.Is(err, peer.ErrBusy), errors.Is(err, peer.ErrNoIncomingCall), errors.Is(err, peer.ErrCallGone):
		c.printf("%v", err)
	default:
		c.l.Error(err, "cli - console")
		c.printf("failed: %v", err)
	}
}
