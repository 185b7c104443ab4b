package http

import (
	"github.com/pion/webrtc/v4"

	"github.com/tutorarc/backend/internal/config"
)

// ICEServers builds the ICE server list handed to browser clients.
// STUN entries carry no credentials; TURN entries share the configured
// username/credential pair.
func ICEServers(cfg config.ICEConfig) []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, 2)
	if len(cfg.STUNURLs) > 0 {
		out = append(out, webrtc.ICEServer{URLs: cfg.STUNURLs})
	}
	if len(cfg.TURNURLs) > 0 {
		out = append(out, webrtc.ICEServer{
			URLs:       cfg.TURNURLs,
			Username:   cfg.TURNUsername,
			Credential: cfg.TURNCredential,
		})
	}
	return out
}
