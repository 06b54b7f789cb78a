//go:build !mediadevices

package main

import (
	"couplecall/pkg/logger"
	"couplecall/pkg/webrtc"
)

// mediaSource sends comfort silence. Build with -tags mediadevices to capture real devices.
func mediaSource(logger.Interface) webrtc.Source {
	return webrtc.Synthetic{}
}
