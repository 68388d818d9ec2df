// Package rtc describes the WebRTC settings peers need to negotiate with each
// other. The relay never opens a PeerConnection itself.
package rtc

import (
	"fmt"
	"strings"

	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
)

var defaultICEURLs = []string{"stun:stun.l.google.com:19302"}

// ICEServers turns configured URLs into ICE server entries, one per URL.
// Entries of the form "turn:host:port?transport=udp|user|credential" carry
// TURN credentials.
func ICEServers(urls []string) ([]webrtc.ICEServer, error) {
	if len(urls) == 0 {
		urls = defaultICEURLs
	}
	out := make([]webrtc.ICEServer, 0, len(urls))
	for _, raw := range urls {
		parts := strings.Split(raw, "|")
		server := webrtc.ICEServer{URLs: []string{parts[0]}}
		switch len(parts) {
		case 1:
		case 3:
			server.Username = parts[1]
			server.Credential = parts[2]
		default:
			return nil, fmt.Errorf("ice server %q: want url or url|user|credential", raw)
		}
		if _, err := stun.ParseURI(parts[0]); err != nil {
			return nil, fmt.Errorf("ice server %q: %w", raw, err)
		}
		out = append(out, server)
	}
	return out, nil
}

// Configuration is the client-side PeerConnection configuration the relay advertises.
func Configuration(urls []string) (webrtc.Configuration, error) {
	servers, err := ICEServers(urls)
	if err != nil {
		return webrtc.Configuration{}, err
	}
	return webrtc.Configuration{ICEServers: servers}, nil
}
