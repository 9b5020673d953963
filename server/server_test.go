package server

import (
	"testing"

	"github.com/hydro-mc/hydro/server/session"
	"github.com/hydro-mc/hydro/server/world"
)

type fakeOutbound struct {
	sent   []any
	closed bool
}

func (f *fakeOutbound) Send(msg any) { f.sent = append(f.sent, msg) }
func (f *fakeOutbound) Close()       { f.closed = true }

func TestConfigNewFillsDefaults(t *testing.T) {
	srv, err := Config{}.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := srv.Universe().TPS(); got != 30 {
		t.Errorf("default TPS = %d, want 30", got)
	}
	if got := srv.Universe().LoadRadius(); got != 4 {
		t.Errorf("default LoadRadius = %d, want 4", got)
	}
	if got := srv.PlayerCount(); got != 0 {
		t.Errorf("PlayerCount = %d, want 0", got)
	}
}

func TestConfigNewRejectsBadScript(t *testing.T) {
	if _, err := (Config{ScriptPath: "/does/not/exist.lua"}).New(); err == nil {
		t.Fatal("expected an error for a missing script file")
	}
}

func TestReapClosedRemovesAndFiresLeave(t *testing.T) {
	srv, err := Config{}.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var fired []*session.Session
	srv.uni.Events().Register("leave", func(payload any) error {
		fired = append(fired, payload.(*session.Session))
		return nil
	})

	id := world.ClientID(world.NewEntityID())
	out := &fakeOutbound{}
	sess := session.New(id, srv.uni, out, nil)

	srv.mu.Lock()
	srv.sessions[id] = sess
	srv.mu.Unlock()

	if srv.PlayerCount() != 1 {
		t.Fatalf("PlayerCount = %d, want 1", srv.PlayerCount())
	}

	sess.Close()
	srv.reapClosed()

	if srv.PlayerCount() != 0 {
		t.Errorf("PlayerCount after reap = %d, want 0", srv.PlayerCount())
	}
	if len(fired) != 1 || fired[0] != sess {
		t.Errorf("expected leave fired once for %v, got %v", sess, fired)
	}
	if !out.closed {
		t.Error("expected the session's outbound to have been closed")
	}
}

func TestClientsReturnsSnapshot(t *testing.T) {
	srv, err := Config{}.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id := world.ClientID(world.NewEntityID())
	sess := session.New(id, srv.uni, &fakeOutbound{}, nil)
	srv.mu.Lock()
	srv.sessions[id] = sess
	srv.mu.Unlock()

	clients := srv.Clients()
	if len(clients) != 1 || clients[id] != sess {
		t.Fatalf("unexpected Clients() snapshot: %v", clients)
	}
	delete(clients, id)
	if srv.PlayerCount() != 1 {
		t.Error("mutating the Clients() snapshot must not affect the server's own registry")
	}
}
