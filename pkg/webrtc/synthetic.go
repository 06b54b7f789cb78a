package webrtc

import (
	"context"
	"fmt"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
)

const (
	_streamID      = "couplecall"
	_frameDuration = 20 * time.Millisecond
)

// An opus frame of comfort silence.
var _opusSilence = []byte{0xf8, 0xff, 0xfe}

// Synthetic produces media without capture devices: an opus track carrying silence and, for
// video calls, a VP8 track that carries no frames.
type Synthetic struct{}

var _ Source = Synthetic{}

// Acquire -.
func (Synthetic) Acquire(ctx context.Context, video bool) (*LocalMedia, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	audio, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2},
		"audio", _streamID,
	)
	if err != nil {
		return nil, fmt.Errorf("webrtc - Synthetic - Acquire - audio: %w", err)
	}

	var vt webrtc.TrackLocal

	if video {
		v, err := webrtc.NewTrackLocalStaticSample(
			webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000},
			"video", _streamID,
		)
		if err != nil {
			return nil, fmt.Errorf("webrtc - Synthetic - Acquire - video: %w", err)
		}

		vt = v
	}

	done := make(chan struct{})
	go pumpSilence(audio, done)

	return newLocalMedia(audio, vt, func() { close(done) }), nil
}

func pumpSilence(track *webrtc.TrackLocalStaticSample, done <-chan struct{}) {
	ticker := time.NewTicker(_frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			// Unbound tracks drop samples.
			_ = track.WriteSample(media.Sample{Data: _opusSilence, Duration: _frameDuration})
		}
	}
}
