package conversation

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"

	"github.com/raphaelgruber/aura-go/internal/models"
)

// AttachmentEncoder converts a local file into the base64 payload included
// with a classification request. Encoding failures surface as turn-level
// errors, never as panics or unhandled failures.
type AttachmentEncoder interface {
	Encode(ctx context.Context, path string) (*models.Attachment, error)
}

// maxAttachmentSize caps attachment files at 10 MiB.
const maxAttachmentSize = 10 << 20

// FileEncoder reads attachments from the local filesystem and sniffs their
// MIME type from content.
type FileEncoder struct{}

// Encode reads the file and returns its base64 data plus detected MIME type.
func (FileEncoder) Encode(ctx context.Context, path string) (*models.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat attachment: %w", err)
	}
	if info.Size() > maxAttachmentSize {
		return nil, fmt.Errorf("attachment too large: %d bytes (max %d)", info.Size(), maxAttachmentSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}

	return &models.Attachment{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: http.DetectContentType(data),
	}, nil
}
