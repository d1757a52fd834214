package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if cfg.StoragePath() != "/share" {
		t.Errorf("expected storage path /share, got %s", cfg.StoragePath())
	}
	if cfg.ValidateReadback {
		t.Error("read-back validation should be disabled by default")
	}
	if cfg.OperationTimeout != 30*time.Second {
		t.Errorf("unexpected default timeout %s", cfg.OperationTimeout)
	}
	if cfg.StorageBackend != StorageFS || cfg.CatalogBackend != CatalogSparql {
		t.Errorf("unexpected default backends %s, %s", cfg.StorageBackend, cfg.CatalogBackend)
	}
}

func TestFromViper(t *testing.T) {
	cases := []struct {
		name     string
		values   map[string]any
		path     string
		validate bool
		err      error
		anyErr   bool
	}{
		{
			name:   "relative storage path",
			values: map[string]any{keyStoragePath: "files/", keyValidateReadback: "true"},
			path:   "/share/files", validate: true,
		},
		{
			name:   "absolute storage path",
			values: map[string]any{keyStoragePath: "/etc"},
			err:    ErrAbsoluteStoragePath,
		},
		{
			name:   "escaping storage path",
			values: map[string]any{keyStoragePath: "files/../../etc"},
			err:    ErrAbsoluteStoragePath,
		},
		{
			name:   "s3 without bucket",
			values: map[string]any{keyStorageBackend: StorageS3},
			anyErr: true,
		},
		{
			name:   "unknown catalog",
			values: map[string]any{keyCatalogBackend: "postgres"},
			anyErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := fromViper(newViper(c.values))
			if c.err != nil || c.anyErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if c.err != nil && !errors.Is(err, c.err) {
					t.Errorf("expected %s, got %s", c.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if cfg.StoragePath() != c.path {
				t.Errorf("expected storage path %s, got %s", c.path, cfg.StoragePath())
			}
			if cfg.ValidateReadback != c.validate {
				t.Errorf("expected ValidateReadback %v", c.validate)
			}
		})
	}
}

func TestSweepAllowed(t *testing.T) {
	cases := []struct {
		name   string
		values map[string]any
		ok     bool
	}{
		{"share root", nil, false},
		{"dedicated directory", map[string]any{keyStoragePath: "files"}, true},
		{"s3", map[string]any{keyStorageBackend: StorageS3, keyS3Bucket: "files"}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := fromViper(newViper(c.values))
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got := cfg.SweepAllowed(); got != c.ok {
				t.Errorf("expected SweepAllowed %t, got %t", c.ok, got)
			}
		})
	}
}
