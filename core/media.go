package core

import (
	"context"
	"io"
)

// FileUploader stores user-provided files (event flyers) and returns their public URL.
type FileUploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}
