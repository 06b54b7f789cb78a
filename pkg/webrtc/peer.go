// Package webrtc implements the real-time transport of a two-party call on top of pion.
// Session descriptions and candidates cross the package boundary as plain strings.
package webrtc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pion/webrtc/v4"

	"couplecall/pkg/logger"
)

// ErrClosed -.
var ErrClosed = errors.New("webrtc: peer closed")

// Factory creates peer connections sharing one configured pion API.
type Factory struct {
	api     *webrtc.API
	config  webrtc.Configuration
	onTrack func(*webrtc.TrackRemote)
	l       logger.Interface
}

// NewFactory -.
func NewFactory(cfg Config, l logger.Interface, opts ...FactoryOption) (*Factory, error) {
	me, ir, err := newMediaEngine()
	if err != nil {
		return nil, fmt.Errorf("webrtc - NewFactory - newMediaEngine: %w", err)
	}

	se, err := cfg.settingEngine()
	if err != nil {
		return nil, fmt.Errorf("webrtc - NewFactory - cfg.settingEngine: %w", err)
	}

	f := &Factory{
		api: webrtc.NewAPI(
			webrtc.WithMediaEngine(me),
			webrtc.WithInterceptorRegistry(ir),
			webrtc.WithSettingEngine(se),
		),
		config:  cfg.configuration(),
		onTrack: drain,
		l:       l,
	}

	// Custom options
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// FactoryOption -.
type FactoryOption func(*Factory)

// OnTrack hands every remote track to fn. The default reads and discards the packets.
func OnTrack(fn func(*webrtc.TrackRemote)) FactoryOption {
	return func(f *Factory) {
		f.onTrack = fn
	}
}

// Peer is one side of a call: a peer connection with the local media added to it.
type Peer struct {
	pc      *webrtc.PeerConnection
	media   *LocalMedia
	senders []*webrtc.RTPSender
	closed  atomicBool
	l       logger.Interface
}

// NewPeer opens a peer connection carrying m. A video call without a local video track still
// receives the partner's video. onCandidate gets each local candidate as JSON text and may be
// called from any goroutine.
func (f *Factory) NewPeer(video bool, m *LocalMedia, onCandidate func(string)) (*Peer, error) {
	pc, err := f.api.NewPeerConnection(f.config)
	if err != nil {
		return nil, fmt.Errorf("webrtc - NewPeer - api.NewPeerConnection: %w", err)
	}

	p := &Peer{pc: pc, media: m, l: f.l}

	if err = p.addMedia(video); err != nil {
		_ = pc.Close()

		return nil, err
	}

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		// nil marks the end of gathering.
		if c == nil || p.closed.get() {
			return
		}

		b, err := json.Marshal(c.ToJSON())
		if err != nil {
			f.l.Warn("webrtc - candidate encode: %v", err)

			return
		}

		onCandidate(string(b))
	})

	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		f.l.Debug("webrtc - connection state %s", s)
	})

	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		f.l.Info("webrtc - remote %s track %s", track.Kind(), track.Codec().MimeType)
		f.onTrack(track)
	})

	return p, nil
}

func (p *Peer) addMedia(video bool) error {
	hasVideo := false

	if p.media != nil {
		for _, track := range p.media.Tracks() {
			s, err := p.pc.AddTrack(track)
			if err != nil {
				return fmt.Errorf("webrtc - addMedia - pc.AddTrack: %w", err)
			}

			if err = p.media.attach(s, track); err != nil {
				return fmt.Errorf("webrtc - addMedia - attach: %w", err)
			}

			p.senders = append(p.senders, s)
			go readRTCP(s)
		}

		hasVideo = p.media.HasVideo()
	}

	kinds := []webrtc.RTPCodecType{}
	if p.media == nil {
		kinds = append(kinds, webrtc.RTPCodecTypeAudio)
	}

	if video && !hasVideo {
		kinds = append(kinds, webrtc.RTPCodecTypeVideo)
	}

	for _, kind := range kinds {
		if _, err := p.pc.AddTransceiverFromKind(kind, webrtc.RTPTransceiverInit{
			Direction: webrtc.RTPTransceiverDirectionRecvonly,
		}); err != nil {
			return fmt.Errorf("webrtc - addMedia - pc.AddTransceiverFromKind: %w", err)
		}
	}

	return nil
}

// CreateOffer creates the offer and installs it as the local description.
func (p *Peer) CreateOffer(ctx context.Context) (string, error) {
	if err := p.usable(ctx); err != nil {
		return "", err
	}

	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return "", fmt.Errorf("webrtc - CreateOffer - pc.CreateOffer: %w", err)
	}

	if err = p.pc.SetLocalDescription(offer); err != nil {
		return "", fmt.Errorf("webrtc - CreateOffer - pc.SetLocalDescription: %w", err)
	}

	return offer.SDP, nil
}

// AcceptOffer installs the partner's offer and returns the local answer.
func (p *Peer) AcceptOffer(ctx context.Context, offer string) (string, error) {
	if err := p.usable(ctx); err != nil {
		return "", err
	}

	err := p.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: offer})
	if err != nil {
		return "", fmt.Errorf("webrtc - AcceptOffer - pc.SetRemoteDescription: %w", err)
	}

	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return "", fmt.Errorf("webrtc - AcceptOffer - pc.CreateAnswer: %w", err)
	}

	if err = p.pc.SetLocalDescription(answer); err != nil {
		return "", fmt.Errorf("webrtc - AcceptOffer - pc.SetLocalDescription: %w", err)
	}

	return answer.SDP, nil
}

// ApplyAnswer -.
func (p *Peer) ApplyAnswer(answer string) error {
	if p.closed.get() {
		return ErrClosed
	}

	err := p.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: answer})
	if err != nil {
		return fmt.Errorf("webrtc - ApplyAnswer - pc.SetRemoteDescription: %w", err)
	}

	return nil
}

// AddCandidate applies a remote candidate given as the JSON text of an ICE candidate init.
func (p *Peer) AddCandidate(c string) error {
	if p.closed.get() {
		return ErrClosed
	}

	var init webrtc.ICECandidateInit
	if err := json.Unmarshal([]byte(c), &init); err != nil {
		return fmt.Errorf("webrtc - AddCandidate - json.Unmarshal: %w", err)
	}

	if err := p.pc.AddICECandidate(init); err != nil {
		return fmt.Errorf("webrtc - AddCandidate - pc.AddICECandidate: %w", err)
	}

	return nil
}

// ConnectionState -.
func (p *Peer) ConnectionState() webrtc.PeerConnectionState {
	return p.pc.ConnectionState()
}

// Close -. Closing twice is a no-op.
func (p *Peer) Close() error {
	if !p.closed.set(true) {
		return nil
	}

	if p.media != nil {
		p.media.detach(p.senders)
	}

	return p.pc.Close()
}

func (p *Peer) usable(ctx context.Context) error {
	if p.closed.get() {
		return ErrClosed
	}

	return ctx.Err()
}

// readRTCP keeps the sender's interceptors running until the sender stops.
func readRTCP(s *webrtc.RTPSender) {
	buf := make([]byte, 1500)

	for {
		if _, _, err := s.Read(buf); err != nil {
			return
		}
	}
}

func drain(track *webrtc.TrackRemote) {
	buf := make([]byte, 1500)

	for {
		if _, _, err := track.Read(buf); err != nil {
			return
		}
	}
}
