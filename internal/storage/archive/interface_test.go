// internal/storage/archive/interface_test.go
package archive

import (
	"errors"
	"testing"

	"github.com/newthinker/crossbt/internal/core"
)

func TestNew_LocalFS(t *testing.T) {
	s, err := New(Config{Type: TypeLocalFS, Path: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := s.(*LocalFS); !ok {
		t.Errorf("expected *LocalFS, got %T", s)
	}
}

func TestNew_S3(t *testing.T) {
	s, err := New(Config{Type: TypeS3, S3: S3Config{Bucket: "runs", Region: "us-east-1"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := s.(*S3Storage); !ok {
		t.Errorf("expected *S3Storage, got %T", s)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"localfs without path", Config{Type: TypeLocalFS}, core.ErrConfigMissing},
		{"s3 without bucket", Config{Type: TypeS3}, core.ErrConfigMissing},
		{"unknown type", Config{Type: "ftp", Path: "/tmp"}, core.ErrConfigInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}
