package filestorage

import (
	"errors"
	"mime/multipart"
)

// ErrUnsupportedType is returned for uploads that are not an accepted image
var ErrUnsupportedType = errors.New("unsupported file type")

// FileInfo represents information about a stored file
type FileInfo struct {
	URL      string `json:"url"`      // Path the file is served under, e.g. /uploads/x.png
	Filename string `json:"filename"` // Original filename
	FileSize int64  `json:"fileSize"` // Size in bytes
	MimeType string `json:"mimeType"` // Detected MIME type
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveImage stores an uploaded image after sniffing its content type
	SaveImage(fileHeader *multipart.FileHeader) (*FileInfo, error)

	// ReadFile returns the content of a stored file addressed by its URL
	ReadFile(fileURL string) ([]byte, error)

	// DeleteFile removes a file from storage
	DeleteFile(fileURL string) error

	// GetFullPath returns the full filesystem path for a given file URL
	GetFullPath(fileURL string) string
}
