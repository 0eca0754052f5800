// ABOUTME: Tests for the credential store
// ABOUTME: Verifies persistence round-trips and the install id

package auth

import (
	"testing"

	"github.com/firefly-health/firefly-cli/internal/client"
)

func TestCredStore_TokensRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewCredStore(dir)
	if err := s.SetTokens("acc-1", "ref-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh store from the same directory sees the persisted pair
	s2 := NewCredStore(dir)
	access, refresh := s2.Tokens()
	if access != "acc-1" || refresh != "ref-1" {
		t.Errorf("expected persisted pair, got access=%q refresh=%q", access, refresh)
	}
}

func TestCredStore_ClearTokens(t *testing.T) {
	dir := t.TempDir()

	s := NewCredStore(dir)
	if err := s.SetTokens("acc-1", "ref-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.ClearTokens(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	access, refresh := NewCredStore(dir).Tokens()
	if access != "" || refresh != "" {
		t.Errorf("expected cleared pair, got access=%q refresh=%q", access, refresh)
	}
}

func TestCredStore_EmptyDir(t *testing.T) {
	s := NewCredStore(t.TempDir())
	access, refresh := s.Tokens()
	if access != "" || refresh != "" {
		t.Errorf("expected empty tokens from fresh store, got access=%q refresh=%q", access, refresh)
	}
	if _, authed := s.Snapshot(); authed {
		t.Error("expected unauthenticated snapshot from fresh store")
	}
}

func TestCredStore_ClientIDStable(t *testing.T) {
	dir := t.TempDir()

	s := NewCredStore(dir)
	id := s.ClientID()
	if id == "" {
		t.Fatal("expected a generated client id")
	}
	if got := s.ClientID(); got != id {
		t.Errorf("expected stable client id, got %q then %q", id, got)
	}

	// Survives restarts and token clears
	if err := s.ClearTokens(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := NewCredStore(dir).ClientID(); got != id {
		t.Errorf("expected client id %q after reload, got %q", id, got)
	}
}

func TestCredStore_SnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewCredStore(dir)
	user := &client.User{ID: "u1", Email: "a@b.test", DisplayName: "A"}
	if err := s.SaveSnapshot(user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored, authed := NewCredStore(dir).Snapshot()
	if !authed {
		t.Fatal("expected authenticated snapshot")
	}
	if restored == nil || restored.Email != "a@b.test" {
		t.Errorf("expected restored user, got %+v", restored)
	}

	if err := s.ClearSnapshot(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, authed := NewCredStore(dir).Snapshot(); authed {
		t.Error("expected cleared snapshot")
	}
}
