//go:build mediadevices

package main

import (
	"couplecall/pkg/logger"
	"couplecall/pkg/webrtc"
)

func mediaSource(l logger.Interface) webrtc.Source {
	return webrtc.NewDevices(l)
}
