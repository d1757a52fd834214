package filestore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/storage"
)

var store *FileStore
var path string
var ctx = context.Background()

func TestMain(m *testing.M) {
	var err error
	path, err = os.MkdirTemp("", "filestore")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup tests")
		return
	}

	store, err = New(path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup tests")
		return
	}

	code := m.Run()
	if err = os.RemoveAll(path); err != nil {
		log.Fatal().Err(err).Msg("removal of temporary directory failed")
	}
	os.Exit(code)
}

func TestWrite(t *testing.T) {
	cases := []struct {
		Casename string
		Path     string
		Content  string
		Err      error
	}{
		{"create file", "f1.txt", "hello, world!", nil},
		{"create duplicate file", "f1.txt", "hello, world!", storage.ErrAlreadyExists},
		{"empty file", "empty", "", nil},
		{"traversal", "../f1.txt", "x", storage.ErrInvalidName},
	}

	for _, c := range cases {
		t.Run(c.Casename, func(t *testing.T) {
			err := store.Write(ctx, c.Path, strings.NewReader(c.Content))
			if err != nil {
				if c.Err == nil {
					t.Error("unexpected error:", err)
				} else if !errors.Is(err, c.Err) {
					t.Errorf("unexpected error type.\nexpected: %s\ngot: %s\n", c.Err, err)
				}
				return
			}
			if c.Err != nil {
				t.Fatalf("expected error %s", c.Err)
			}

			content, err := os.ReadFile(filepath.Join(path, c.Path))
			if err != nil {
				t.Fatalf("failed to read file: %s", err)
			}
			if string(content) != c.Content {
				t.Errorf("expected \"%s\", got \"%s\"", c.Content, content)
			}

			size, err := store.Size(ctx, c.Path)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if size != int64(len(c.Content)) {
				t.Errorf("expected size %d, got %d", len(c.Content), size)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	name := "readable.txt"
	if err := os.WriteFile(filepath.Join(path, name), []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := store.Open(ctx, name)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	defer r.Close()
	if _, ok := r.(io.Seeker); !ok {
		t.Error("file store readers should be seekable")
	}
	b, _ := io.ReadAll(r)
	if string(b) != "content" {
		t.Errorf("unexpected content %q", b)
	}

	if _, err = store.Open(ctx, "missing"); !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	name := "moribundus"
	f, err := os.Create(filepath.Join(path, name))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	f.Close()

	if err = store.Delete(ctx, name); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
	if exists, _ := store.Exists(ctx, name); exists {
		t.Error("file still exists after deletion")
	}

	if err = store.Delete(ctx, "none"); err != nil {
		t.Errorf("deleting a missing file should succeed, got %s", err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a", "b"} {
		if err := s.Write(ctx, name, strings.NewReader(name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, tempPrefix+"partial"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var names []string
	err = s.List(ctx, func(b storage.BlobInfo) error {
		names = append(names, b.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("unexpected listing %v", names)
	}
}
