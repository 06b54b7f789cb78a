//go:build mediadevices

package webrtc

import (
	"context"
	"errors"
	"fmt"

	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/codec/opus"
	"github.com/pion/mediadevices/pkg/codec/vpx"
	_ "github.com/pion/mediadevices/pkg/driver/camera"     // camera driver
	_ "github.com/pion/mediadevices/pkg/driver/microphone" // microphone driver
	"github.com/pion/mediadevices/pkg/frame"
	"github.com/pion/mediadevices/pkg/prop"
	"github.com/pion/webrtc/v4"

	"couplecall/pkg/logger"
)

const _videoBitRate = 1_500_000

// ErrNoMicrophone -.
var ErrNoMicrophone = errors.New("webrtc: no microphone captured")

// Devices captures the camera and microphone.
type Devices struct {
	l logger.Interface
}

var _ Source = (*Devices)(nil)

// NewDevices -.
func NewDevices(l logger.Interface) *Devices {
	return &Devices{l: l}
}

// Acquire opens the microphone and, for video calls, the camera. A missing camera degrades the
// call to receive-only video; a missing microphone fails it.
func (d *Devices) Acquire(ctx context.Context, video bool) (*LocalMedia, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vpxParams, err := vpx.NewVP8Params()
	if err != nil {
		return nil, fmt.Errorf("webrtc - Devices - Acquire - vpx.NewVP8Params: %w", err)
	}
	vpxParams.BitRate = _videoBitRate

	opusParams, err := opus.NewParams()
	if err != nil {
		return nil, fmt.Errorf("webrtc - Devices - Acquire - opus.NewParams: %w", err)
	}

	selector := mediadevices.NewCodecSelector(
		mediadevices.WithVideoEncoders(&vpxParams),
		mediadevices.WithAudioEncoders(&opusParams),
	)

	stream, err := mediadevices.GetUserMedia(d.constraints(selector, video))
	if err != nil && video {
		d.l.Warn("webrtc - camera and microphone unavailable, trying microphone only: %v", err)
		stream, err = mediadevices.GetUserMedia(d.constraints(selector, false))
	}

	if err != nil {
		return nil, fmt.Errorf("webrtc - Devices - Acquire - mediadevices.GetUserMedia: %w", err)
	}

	var audio, vt webrtc.TrackLocal

	tracks := stream.GetTracks()
	for _, t := range tracks {
		t.OnEnded(func(err error) {
			if err != nil {
				d.l.Warn("webrtc - local track ended: %v", err)
			}
		})

		switch t.Kind() {
		case webrtc.RTPCodecTypeAudio:
			audio = t
		case webrtc.RTPCodecTypeVideo:
			vt = t
		}
	}

	closeAll := func() {
		for _, t := range tracks {
			t.Close()
		}
	}

	if audio == nil {
		closeAll()

		return nil, ErrNoMicrophone
	}

	return newLocalMedia(audio, vt, closeAll), nil
}

func (d *Devices) constraints(selector *mediadevices.CodecSelector, video bool) mediadevices.MediaStreamConstraints {
	c := mediadevices.MediaStreamConstraints{
		Codec: selector,
		Audio: func(_ *mediadevices.MediaTrackConstraints) {},
	}

	if video {
		c.Video = func(c *mediadevices.MediaTrackConstraints) {
			// Raw formats only; MJPEG nodes of some cameras poison the encoder.
			c.FrameFormat = prop.FrameFormatOneOf{
				frame.FormatYUYV,
				frame.FormatI420,
				frame.FormatI444,
				frame.FormatRGBA,
			}
			c.Width = prop.IntRanged{Max: 640}
			c.Height = prop.IntRanged{Max: 480}
		}
	}

	return c
}
