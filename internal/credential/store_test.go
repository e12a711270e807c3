package credential

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T, legacyPath string) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "credentials.db"), legacyPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	if err := s.Save(ctx, UserScope("uid-1"), "token=abc"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	value, ok, err := s.Load(ctx, UserScope("uid-1"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok || value != "token=abc" {
		t.Errorf("Load = (%q, %v), want (token=abc, true)", value, ok)
	}
}

func TestStore_LoadUnknownScope(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	value, ok, err := s.Load(ctx, UserScope("nobody"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || value != "" {
		t.Errorf("Load = (%q, %v), want absent", value, ok)
	}
}

func TestStore_OverwriteReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	if err := s.Save(ctx, VIPScope, "token=first"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, VIPScope, "token=second; userid=9"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	value, ok, err := s.Load(ctx, VIPScope)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok || value != "token=second; userid=9" {
		t.Errorf("Load = (%q, %v), want latest value", value, ok)
	}
}

func TestStore_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	if err := s.Save(ctx, UserScope("a"), "token=for-a"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, UserScope("b"), "token=for-b"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	value, _, err := s.Load(ctx, UserScope("a"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if value != "token=for-a" {
		t.Errorf("scope a = %q, want token=for-a", value)
	}
}

func TestStore_SaveSanitizes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	if err := s.Save(ctx, VIPScope, "token=abc; Path=/; HttpOnly; userid=1; Secure"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	value, _, err := s.Load(ctx, VIPScope)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if value != "token=abc; userid=1" {
		t.Errorf("stored value = %q, want sanitized pairs", value)
	}
}

func TestStore_SaveRejectsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	if err := s.Save(ctx, VIPScope, "Path=/; Secure"); err == nil {
		t.Error("expected error saving a credential that sanitizes to nothing")
	}
}

func TestStore_VIPFallsBackToLegacy(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	legacy := filepath.Join(dir, "loginToken.txt")
	if err := os.WriteFile(legacy, []byte("raw-legacy-token\n"), 0644); err != nil {
		t.Fatalf("write legacy token: %v", err)
	}

	s := newTestStore(t, legacy)

	// No VIP row saved: the legacy file backs the lookup, wrapped as a
	// token cookie.
	value, ok, err := s.VIP(ctx)
	if err != nil {
		t.Fatalf("VIP: %v", err)
	}
	if !ok || value != "token=raw-legacy-token" {
		t.Errorf("VIP = (%q, %v), want legacy token", value, ok)
	}

	// Once a VIP credential exists it wins over the legacy file.
	if err := s.Save(ctx, VIPScope, "token=real-vip"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	value, ok, err = s.VIP(ctx)
	if err != nil {
		t.Fatalf("VIP: %v", err)
	}
	if !ok || value != "token=real-vip" {
		t.Errorf("VIP = (%q, %v), want saved VIP credential", value, ok)
	}
}

func TestStore_ForIdentityPrecedence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	// Nothing anywhere: absent, not an error.
	value, ok, err := s.ForIdentity(ctx, "uid-1")
	if err != nil {
		t.Fatalf("ForIdentity: %v", err)
	}
	if ok || value != "" {
		t.Errorf("ForIdentity = (%q, %v), want absent", value, ok)
	}

	if err := s.Save(ctx, UserScope("uid-1"), "token=own"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	value, ok, err = s.ForIdentity(ctx, "uid-1")
	if err != nil {
		t.Fatalf("ForIdentity: %v", err)
	}
	if !ok || value != "token=own" {
		t.Errorf("ForIdentity = (%q, %v), want identity credential", value, ok)
	}
}

func TestStore_MissingLegacyFileIsAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, filepath.Join(t.TempDir(), "missing.txt"))

	_, ok, err := s.VIP(ctx)
	if err != nil {
		t.Fatalf("VIP: %v", err)
	}
	if ok {
		t.Error("missing legacy file should be absent, not an error")
	}
}
