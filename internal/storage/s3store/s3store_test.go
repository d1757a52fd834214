package s3store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/sidereusnuntius/filecat/internal/config"
	"github.com/sidereusnuntius/filecat/internal/storage"
)

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), config.S3Config{Region: "eu-west-1"})
	if err == nil {
		t.Fatal("expected an error for a missing bucket")
	}
}

func TestKey(t *testing.T) {
	cases := []struct {
		prefix, name, key string
		err               error
	}{
		{"", "a.pdf", "a.pdf", nil},
		{"uploads", "a.pdf", "uploads/a.pdf", nil},
		{"uploads", "../a.pdf", "", storage.ErrInvalidName},
	}

	for _, c := range cases {
		s := &Store{bucket: "b", prefix: c.prefix}
		key, err := s.key(c.name)
		if !errors.Is(err, c.err) {
			t.Errorf("%s: expected error %v, got %v", c.name, c.err, err)
			continue
		}
		if key != c.key {
			t.Errorf("expected key %s, got %s", c.key, key)
		}
	}

	s := &Store{bucket: "b", prefix: "uploads"}
	if loc := s.Location("a.pdf"); loc != "s3://b/uploads/a.pdf" {
		t.Errorf("unexpected location %s", loc)
	}
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"typed not found", &types.NotFound{}, true},
		{"no such key", fmt.Errorf("get: %w", &types.NoSuchKey{}), true},
		{"generic code", &smithy.GenericAPIError{Code: "NotFound"}, true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := isNotFound(c.err); got != c.want {
				t.Errorf("expected %v, got %v", c.want, got)
			}
		})
	}
}
