package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"finconsole/models"
)

// MaxDocumentSize caps one uploaded identity document.
const MaxDocumentSize = 5 << 20

// ErrNotImage rejects documents that are not images.
var ErrNotImage = errors.New("document must be an image")

// ReadUploadedDocument loads an uploaded file for forwarding as field. Only
// images are accepted; the content type is sniffed rather than trusted.
func ReadUploadedDocument(file *multipart.FileHeader, field string) (models.Document, error) {
	if file.Size > MaxDocumentSize {
		return models.Document{}, fmt.Errorf("%s exceeds %d MB", file.Filename, MaxDocumentSize>>20)
	}

	src, err := file.Open()
	if err != nil {
		return models.Document{}, err
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, MaxDocumentSize+1))
	if err != nil {
		return models.Document{}, err
	}
	if len(content) > MaxDocumentSize {
		return models.Document{}, fmt.Errorf("%s exceeds %d MB", file.Filename, MaxDocumentSize>>20)
	}

	contentType := mimetype.Detect(content).String()
	if !strings.HasPrefix(contentType, "image/") {
		return models.Document{}, fmt.Errorf("%s: %w", file.Filename, ErrNotImage)
	}

	return models.Document{
		Field:       field,
		FileName:    file.Filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}
