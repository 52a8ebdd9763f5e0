// Package upload stores multipart files in the relay's temp directory.
package upload

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adaptive-reader/internal/api/errors"
)

// File is an uploaded file persisted to disk.
type File struct {
	Path         string
	OriginalName string
	Size         int64
}

// Saver writes uploads into one directory under generated names.
type Saver struct {
	dir string
}

// NewSaver creates a saver for dir. The directory is created on first use.
func NewSaver(dir string) *Saver {
	return &Saver{dir: dir}
}

// Save persists the multipart file in form field. label names the file kind
// in the client message, e.g. "image" gives "No image file uploaded.".
func (s *Saver) Save(c *gin.Context, field, label string) (*File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.NewPayloadTooLargeError(tooLarge.Limit)
		}
		// Missing field, non-multipart body and malformed forms all mean no file.
		return nil, errors.NewBadRequestError(fmt.Sprintf("No %s file uploaded.", label))
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(s.dir, name)
	if err := c.SaveUploadedFile(header, path); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	return &File{
		Path:         path,
		OriginalName: header.Filename,
		Size:         header.Size,
	}, nil
}
