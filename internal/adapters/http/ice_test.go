package http

import (
	"testing"

	"github.com/tutorarc/backend/internal/config"
)

func TestICEServers_STUNOnly(t *testing.T) {
	got := ICEServers(config.ICEConfig{
		STUNURLs: []string{"stun:stun.l.google.com:19302"},
	})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Fatalf("urls = %v", got[0].URLs)
	}
	if got[0].Username != "" || got[0].Credential != nil {
		t.Fatal("STUN entry must not carry credentials")
	}
}

func TestICEServers_WithTURN(t *testing.T) {
	got := ICEServers(config.ICEConfig{
		STUNURLs:       []string{"stun:stun.example.com:3478"},
		TURNURLs:       []string{"turn:turn.example.com:3478"},
		TURNUsername:   "tutor",
		TURNCredential: "secret",
	})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	turn := got[1]
	if turn.Username != "tutor" {
		t.Fatalf("turn username = %q", turn.Username)
	}
	cred, ok := turn.Credential.(string)
	if !ok || cred != "secret" {
		t.Fatalf("turn credential = %v", turn.Credential)
	}
}

func TestICEServers_Empty(t *testing.T) {
	if got := ICEServers(config.ICEConfig{}); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}
