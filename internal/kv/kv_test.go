package kv

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/goleak"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	t.Cleanup(func() { fs.Close() })
	return map[string]Store{
		"file":   fs,
		"memory": NewMemStore(),
	}
}

func TestRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			want := doc{Name: "lain", Count: 7}
			if err := s.Save("navi-theme", want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			var got doc
			if err := s.Load("navi-theme", &got); err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got != want {
				t.Errorf("Load = %+v, want %+v", got, want)
			}
		})
	}
}

func TestMissingKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var got doc
			if err := s.Load("trail-config", &got); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load missing = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestInvalidKeys(t *testing.T) {
	for name, s := range stores(t) {
		for _, key := range []string{"", "..", "a/b", `a\b`} {
			t.Run(name+"/"+key, func(t *testing.T) {
				if err := s.Save(key, doc{}); err == nil {
					t.Errorf("Save(%q) succeeded", key)
				}
				if err := s.Load(key, &doc{}); err == nil || errors.Is(err, ErrNotFound) {
					t.Errorf("Load(%q) = %v, want invalid key error", key, err)
				}
			})
		}
	}
}

func TestMalformedDocument(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fs.Path("navi-theme"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	err = fs.Load("navi-theme", &doc{})
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Load malformed = %v, want decode error", err)
	}

	mem := NewMemStore()
	mem.SetRaw("navi-theme", []byte("[]"))
	if err := mem.Load("navi-theme", &doc{}); err == nil {
		t.Error("MemStore decoded a malformed document")
	}
}

func TestFileStoreDelete(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Save("trail-config", doc{Name: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := fs.Delete("trail-config"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := fs.Delete("trail-config"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
	if err := fs.Load("trail-config", &doc{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete = %v", err)
	}
}

func TestWatchReportsWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	keys := make(chan string, 16)
	if err := fs.Watch(context.Background(), func(key string) { keys <- key }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := fs.Save("navi-theme", doc{Name: "wired"}); err != nil {
		t.Fatal(err)
	}

	select {
	case key := <-keys:
		if key != "navi-theme" {
			t.Errorf("watched key = %q, want navi-theme", key)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	if err := fs.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestWatchStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := fs.Watch(ctx, func(string) {}); err != nil {
		t.Fatal(err)
	}
	cancel()
	fs.Close()
}

func TestKeyFromPath(t *testing.T) {
	tests := []struct {
		path string
		key  string
		ok   bool
	}{
		{"/tmp/store/navi-theme.json", "navi-theme", true},
		{"/tmp/store/.navi-theme-123.tmp", "", false},
		{"/tmp/store/.hidden.json", "", false},
		{"/tmp/store/notes.txt", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			key, ok := keyFromPath(tt.path)
			if key != tt.key || ok != tt.ok {
				t.Errorf("keyFromPath(%q) = %q, %v", tt.path, key, ok)
			}
		})
	}
}
