package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"couplecall/internal/entity"
	"couplecall/internal/peer"
	"couplecall/pkg/logger"
	"couplecall/pkg/webrtc"
)

const (
	_hangupTimeout   = 5 * time.Second
	_minAnswerPeriod = time.Millisecond
)

type sessionOptions struct {
	autoAnswer bool
	dial       string
	exitOnEnd  bool
}

func runSession(cmd *cobra.Command, opts *RootOptions, so sessionOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := logger.NewWithWriter(opts.LogLevel, cmd.ErrOrStderr()).With("user", opts.User)

	client, err := peer.NewClient(opts.Server, opts.User)
	if err != nil {
		return err
	}

	id, err := client.Identity(ctx)
	if err != nil {
		return fmt.Errorf("cli - runSession - client.Identity: %w", err)
	}

	factory, err := webrtc.NewFactory(opts.webrtcConfig(), l)
	if err != nil {
		return fmt.Errorf("cli - runSession - webrtc.NewFactory: %w", err)
	}

	e := peer.New(id, client,
		peer.NewPionSessions(factory),
		peer.NewPionMedia(opts.newSource(l)),
		l,
		peer.Interval(opts.Interval),
	)

	con := newConsole(e, id.PartnerID, cmd.OutOrStdout(), l)
	e.OnEvent(con.onEvent)

	ended := make(chan struct{}, 1)
	e.OnEvent(func(ev peer.Event) {
		if ev.Type == peer.EventStateChanged && ev.State == peer.Idle {
			select {
			case ended <- struct{}{}:
			default:
			}
		}
	})

	con.printf("%s here, partner %s (couple %s)", id.LocalID, id.PartnerID, id.CoupleID)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := e.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			l.Error(err, "cli - runSession - e.Run")
		}
	}()

	if opts.Watch {
		go watch(runCtx, client, e, opts.Interval, l)
	}

	if so.autoAnswer {
		go autoAnswer(runCtx, e, opts.Interval, l)
	}

	if so.dial != "" {
		kind, err := entity.ParseCallKind(so.dial)
		if err != nil {
			return err
		}

		if err = con.dial(ctx, kind); err != nil {
			return fmt.Errorf("cli - runSession - dial: %w", err)
		}
	}

	lines := readLines(cmd.InOrStdin())

	defer func() {
		// Leave no call behind.
		if e.Snapshot().State == peer.Idle {
			return
		}

		hctx, hcancel := context.WithTimeout(context.Background(), _hangupTimeout)
		defer hcancel()

		if err := e.Hangup(hctx); err != nil {
			l.Warn("cli - hangup on exit: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ended:
			if so.exitOnEnd {
				return nil
			}

		case line, ok := <-lines:
			if !ok || con.exec(ctx, line) {
				return nil
			}
		}
	}
}

func (o *RootOptions) webrtcConfig() webrtc.Config {
	cfg := webrtc.DefaultConfig()
	cfg.ICEServers = nil

	if len(o.ICEServers) > 0 {
		cfg.ICEServers = []webrtc.ICEServer{{URLs: o.ICEServers}}
	}

	cfg.IncludeLoopback = o.Loopback

	return cfg
}

// watch turns pushed call events into early ticks and reconnects until ctx is done.
func watch(ctx context.Context, c *peer.Client, e *peer.Engine, retry time.Duration, l logger.Interface) {
	for {
		err := c.Watch(ctx, func(entity.CallEvent) { e.Trigger() })
		if ctx.Err() != nil {
			return
		}

		l.Debug(err, "cli - watch - reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
	}
}

// autoAnswer accepts ringing calls as soon as their offer is published.
func autoAnswer(ctx context.Context, e *peer.Engine, interval time.Duration, l logger.Interface) {
	ticker := time.NewTicker(answerPeriod(interval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if e.Snapshot().State != peer.Incoming {
			continue
		}

		err := e.Accept(ctx)
		if err != nil && !errors.Is(err, peer.ErrOfferNotReady) && !errors.Is(err, peer.ErrNoIncomingCall) {
			l.Warn("cli - auto answer: %v", err)
		}
	}
}

func answerPeriod(interval time.Duration) time.Duration {
	if p := interval / 2; p > _minAnswerPeriod {
		return p
	}

	return _minAnswerPeriod
}

func readLines(r io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		s := bufio.NewScanner(r)
		for s.Scan() {
			lines <- s.Text()
		}
	}()

	return lines
}
