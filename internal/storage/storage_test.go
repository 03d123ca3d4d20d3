package storage

import (
	"context"
	"errors"
	"testing"

	"medadmin/m/internal/database"
	"medadmin/m/internal/migrations"
)

func TestLocalNamespaces(t *testing.T) {
	db, err := database.Connect("file::memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	a := NewLocal(db, "browser-a")
	b := NewLocal(db, "browser-b")

	if err := a.SetItem(ctx, "user", "alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := a.SetItem(ctx, "user", "alice2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, ok, _ := a.GetItem(ctx, "user"); !ok || v != "alice2" {
		t.Fatalf("a.user = %q, %v", v, ok)
	}
	if _, ok, _ := b.GetItem(ctx, "user"); ok {
		t.Fatal("namespace b should not see a's value")
	}
	if err := a.RemoveItem(ctx, "user"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := a.GetItem(ctx, "user"); ok {
		t.Fatal("value should be gone")
	}
}

func TestSealedRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s := Seal(mem, "secret")

	if err := s.SetItem(ctx, "auth_token", "abc.def.ghi"); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, _, _ := mem.GetItem(ctx, "auth_token")
	if raw == "abc.def.ghi" {
		t.Fatal("value stored in clear")
	}
	v, ok, err := s.GetItem(ctx, "auth_token")
	if err != nil || !ok || v != "abc.def.ghi" {
		t.Fatalf("get = %q, %v, %v", v, ok, err)
	}

	other := Seal(mem, "another secret")
	if _, _, err := other.GetItem(ctx, "auth_token"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("wrong key err = %v", err)
	}
	_ = mem.SetItem(ctx, "auth_token", "%%%")
	if _, _, err := s.GetItem(ctx, "auth_token"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("garbage err = %v", err)
	}
}
