package conversation

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileEncoderEncodesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	content := []byte("tire pressure warning on the dashboard")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	att, err := FileEncoder{}.Encode(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := base64.StdEncoding.DecodeString(att.Data)
	if err != nil {
		t.Fatalf("data is not valid base64: %v", err)
	}
	if string(decoded) != string(content) {
		t.Error("decoded content does not round-trip")
	}
	if !strings.HasPrefix(att.MimeType, "text/plain") {
		t.Errorf("mime type = %q, want text/plain", att.MimeType)
	}
}

func TestFileEncoderDetectsImageMime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.png")
	// Minimal PNG signature.
	sig := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	if err := os.WriteFile(path, sig, 0644); err != nil {
		t.Fatal(err)
	}

	att, err := FileEncoder{}.Encode(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if att.MimeType != "image/png" {
		t.Errorf("mime type = %q, want image/png", att.MimeType)
	}
}

func TestFileEncoderMissingFile(t *testing.T) {
	_, err := FileEncoder{}.Encode(context.Background(), "/does/not/exist.jpg")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileEncoderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FileEncoder{}.Encode(ctx, "/tmp/anything")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
