package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yigit/examcraft/internal/pkg/logger"
)

// URLPrefix is the route stored files are served under
const URLPrefix = "/uploads"

// AcceptedImageTypes maps sniffed MIME types to file extensions
var AcceptedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	maxBytes int64  // Upper bound on a single upload
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// maxBytes <= 0 disables the size check.
func NewLocalStorage(basePath string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath, maxBytes: maxBytes}, nil
}

// SaveImage stores an uploaded png, jpeg or gif under a random name
func (ls *LocalStorage) SaveImage(fileHeader *multipart.FileHeader) (*FileInfo, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("%w: no file", ErrUnsupportedType)
	}
	if ls.maxBytes > 0 && fileHeader.Size > ls.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrUnsupportedType, ls.maxBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	mime := mimetype.Detect(data)
	ext, ok := AcceptedImageTypes[mime.String()]
	if !ok {
		logger.Warn().Str("filename", fileHeader.Filename).Str("mime", mime.String()).Msg("Rejected upload with unsupported type")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
	}

	name := uuid.New().String() + ext
	dstPath := filepath.Join(ls.basePath, name)
	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write uploaded file")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	info := &FileInfo{
		URL:      URLPrefix + "/" + name,
		Filename: fileHeader.Filename,
		FileSize: int64(len(data)),
		MimeType: mime.String(),
	}
	logger.Info().Str("filename", fileHeader.Filename).Str("url", info.URL).Msg("File saved successfully")
	return info, nil
}

// SaveBytes stores raw image bytes, used by the CLI and tests
func (ls *LocalStorage) SaveBytes(data []byte) (*FileInfo, error) {
	mime := mimetype.Detect(data)
	ext, ok := AcceptedImageTypes[mime.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
	}
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(ls.basePath, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}
	return &FileInfo{URL: URLPrefix + "/" + name, Filename: name, FileSize: int64(len(data)), MimeType: mime.String()}, nil
}

// ReadFile returns the content of the file behind fileURL
func (ls *LocalStorage) ReadFile(fileURL string) ([]byte, error) {
	path := ls.GetFullPath(fileURL)
	if path == "" {
		return nil, fmt.Errorf("invalid file path: %s", fileURL)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fileURL, err)
	}
	if ls.maxBytes > 0 && int64(len(data)) > ls.maxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", fileURL, ls.maxBytes)
	}
	return data, nil
}

// DeleteFile removes a file from the storage filesystem.
// Returns nil if deletion is successful or if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	physicalPath := ls.GetFullPath(fileURL)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath returns the filesystem path for a URL under /uploads.
// Only the base name is kept so a URL cannot escape the storage root.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	trimmed := strings.TrimPrefix(fileURL, URLPrefix+"/")
	filename := filepath.Base(trimmed)
	if filename == "" || filename == "." || filename == "/" || filename == ".." {
		return ""
	}
	return filepath.Join(ls.basePath, filename)
}
