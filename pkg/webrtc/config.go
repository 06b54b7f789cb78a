package webrtc

import (
	"time"

	"github.com/pion/webrtc/v4"
)

// Default UDP port range for ICE.
const (
	_defaultPortMin = 32768
	_defaultPortMax = 46883
)

// ICEServer -.
type ICEServer struct {
	URLs       []string `yaml:"urls"`
	Username   string   `yaml:"username"`
	Credential string   `yaml:"credential"`
}

// Config defines the ICE parameters of every peer connection a Factory creates.
type Config struct {
	ICEServers []ICEServer
	// PortMin and PortMax bound the local UDP ports. Zero means the default range.
	PortMin uint16
	PortMax uint16
	// DisconnectedTimeout and FailedTimeout follow pion's SettingEngine.SetICETimeouts.
	DisconnectedTimeout time.Duration
	FailedTimeout       time.Duration
	KeepAlive           time.Duration
	// IncludeLoopback gathers 127.0.0.1 candidates. Only useful when both peers share a host.
	IncludeLoopback bool
}

// DefaultConfig uses a public STUN server and keeps calls alive through short outages.
func DefaultConfig() Config {
	return Config{
		ICEServers:          []ICEServer{{URLs: []string{"stun:stun.l.google.com:19302"}}},
		DisconnectedTimeout: 30 * time.Second,
		FailedTimeout:       2 * time.Minute,
		KeepAlive:           2 * time.Second,
	}
}

func (c Config) settingEngine() (webrtc.SettingEngine, error) {
	se := webrtc.SettingEngine{}

	if c.DisconnectedTimeout > 0 && c.FailedTimeout > 0 {
		se.SetICETimeouts(c.DisconnectedTimeout, c.FailedTimeout, c.KeepAlive)
	}

	lo, hi := c.PortMin, c.PortMax
	if lo == 0 && hi == 0 {
		lo, hi = _defaultPortMin, _defaultPortMax
	}

	if err := se.SetEphemeralUDPPortRange(lo, hi); err != nil {
		return se, err
	}

	se.SetIncludeLoopbackCandidate(c.IncludeLoopback)

	return se, nil
}

func (c Config) configuration() webrtc.Configuration {
	servers := make([]webrtc.ICEServer, 0, len(c.ICEServers))

	for _, s := range c.ICEServers {
		servers = append(servers, webrtc.ICEServer{
			URLs:       s.URLs,
			Username:   s.Username,
			Credential: s.Credential,
		})
	}

	return webrtc.Configuration{ICEServers: servers}
}
