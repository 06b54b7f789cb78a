package webrtc

import (
	"context"
	"sync"

	"github.com/pion/webrtc/v4"
)

// Source acquires local media for one call.
type Source interface {
	Acquire(ctx context.Context, video bool) (*LocalMedia, error)
}

// LocalMedia is a set of local tracks shared by the peer connections they are added to.
// Disabling a kind detaches its track from every sender until it is enabled again.
type LocalMedia struct {
	mu      sync.Mutex
	audio   webrtc.TrackLocal
	video   webrtc.TrackLocal
	audioOn bool
	videoOn bool
	senders map[*webrtc.RTPSender]webrtc.TrackLocal
	stop    func()
	stopped bool
}

func newLocalMedia(audio, video webrtc.TrackLocal, stop func()) *LocalMedia {
	return &LocalMedia{
		audio:   audio,
		video:   video,
		audioOn: true,
		videoOn: true,
		senders: make(map[*webrtc.RTPSender]webrtc.TrackLocal),
		stop:    stop,
	}
}

// Tracks returns the audio track and, when present, the video track.
func (m *LocalMedia) Tracks() []webrtc.TrackLocal {
	tracks := make([]webrtc.TrackLocal, 0, 2)

	if m.audio != nil {
		tracks = append(tracks, m.audio)
	}

	if m.video != nil {
		tracks = append(tracks, m.video)
	}

	return tracks
}

// HasVideo -.
func (m *LocalMedia) HasVideo() bool {
	return m.video != nil
}

// SetAudioEnabled -.
func (m *LocalMedia) SetAudioEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.audioOn == on {
		return
	}

	m.audioOn = on
	m.rebind(m.audio, on)
}

// SetVideoEnabled -.
func (m *LocalMedia) SetVideoEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.videoOn == on {
		return
	}

	m.videoOn = on
	m.rebind(m.video, on)
}

// Enabled reports the audio and video switches.
func (m *LocalMedia) Enabled() (audio, video bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.audioOn, m.videoOn
}

// Stop releases the capture. The tracks go silent on every sender.
func (m *LocalMedia) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}

	m.stopped = true
	m.senders = make(map[*webrtc.RTPSender]webrtc.TrackLocal)

	if m.stop != nil {
		m.stop()
	}
}

func (m *LocalMedia) rebind(track webrtc.TrackLocal, on bool) {
	if track == nil {
		return
	}

	for s, t := range m.senders {
		if t == track {
			_ = replace(s, t, on)
		}
	}
}

// attach records the sender of track and applies the current switch to it.
func (m *LocalMedia) attach(s *webrtc.RTPSender, track webrtc.TrackLocal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.senders[s] = track

	on := m.audioOn
	if track == m.video {
		on = m.videoOn
	}

	if on {
		return nil
	}

	return replace(s, track, false)
}

func (m *LocalMedia) detach(senders []*webrtc.RTPSender) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range senders {
		delete(m.senders, s)
	}
}

func replace(s *webrtc.RTPSender, track webrtc.TrackLocal, on bool) error {
	if on {
		return s.ReplaceTrack(track)
	}

	return s.ReplaceTrack(nil)
}
