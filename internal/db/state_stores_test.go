package db

import (
	"context"
	"os"
	"strconv"
	"testing"
)

func exerciseStateStore(t *testing.T, store StateStore, prefix string) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := store.Load(ctx, prefix+":missing"); err != nil || found {
		t.Fatalf("Load(missing) = found %t, err %v", found, err)
	}
	if err := store.Save(ctx, prefix+":a", []byte("one")); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}
	if err := store.Save(ctx, prefix+":b", []byte("two")); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	payload, found, err := store.Load(ctx, prefix+":a")
	if err != nil || !found || string(payload) != "one" {
		t.Fatalf("Load(a) = %q, found %t, err %v", payload, found, err)
	}

	if err := store.Delete(ctx, prefix+":a"); err != nil {
		t.Fatalf("Delete() returned error: %v", err)
	}
	if _, found, _ := store.Load(ctx, prefix+":a"); found {
		t.Fatal("key still present after Delete()")
	}

	removed, err := store.DeletePrefix(ctx, prefix)
	if err != nil {
		t.Fatalf("DeletePrefix() returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("DeletePrefix() removed %d, want 1", removed)
	}
}

func TestMemoryStateStore(t *testing.T) {
	exerciseStateStore(t, NewMemoryStateStore(), "pharmaLabelState")
}

func TestMemoryStateStoreCopiesPayload(t *testing.T) {
	store := NewMemoryStateStore()
	payload := []byte("abc")
	if err := store.Save(context.Background(), "k", payload); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}
	payload[0] = 'x'

	stored, _, _ := store.Load(context.Background(), "k")
	if string(stored) != "abc" {
		t.Fatalf("stored payload changed to %q", stored)
	}
}

func TestRedisStateStore(t *testing.T) {
	addr := os.Getenv("DOSALABEL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DOSALABEL_TEST_REDIS_ADDR not set")
	}
	dbIndex, _ := strconv.Atoi(os.Getenv("DOSALABEL_TEST_REDIS_DB"))

	client, err := OpenRedis(context.Background(), RedisOptions{Addr: addr, DB: dbIndex})
	if err != nil {
		t.Fatalf("OpenRedis() returned error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	exerciseStateStore(t, NewRedisStateStore(client), "dosalabelTest")
}

func TestOpenRepositoriesRejectsUnknownBackend(t *testing.T) {
	if _, err := OpenRepositories(context.Background(), StoreOptions{Backend: "etcd"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestOpenRepositoriesMemory(t *testing.T) {
	repositories, err := OpenRepositories(context.Background(), StoreOptions{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("OpenRepositories() returned error: %v", err)
	}
	if _, ok := repositories.States.(*MemoryStateStore); !ok {
		t.Fatalf("unexpected store %T", repositories.States)
	}
	if err := repositories.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}
}
