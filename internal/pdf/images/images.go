// Package images prefetches the pictures referenced by an exam so the
// renderer can lay them out synchronously.
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"

	"github.com/yigit/examcraft/internal/app/models"
)

// ErrUnsupported is returned for content that is not png, jpeg or gif
var ErrUnsupported = errors.New("unsupported image type")

// formats maps accepted MIME types to the names the PDF backend expects
var formats = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
}

// Image is a fetched and sniffed picture
type Image struct {
	Source string
	Data   []byte
	Format string
	Width  int // pixels
	Height int // pixels
}

// Set holds the images fetched for one export, keyed by source
type Set map[string]*Image

// Get returns the image fetched for src. Sources are trimmed the same way
// Sources trims them.
func (s Set) Get(src string) (*Image, bool) {
	img, ok := s[strings.TrimSpace(src)]
	return img, ok && img != nil
}

// Sources lists the distinct image references of cs in order of appearance
func Sources(cs []models.Component) []string {
	var out []string
	for _, c := range cs {
		switch v := c.(type) {
		case *models.ImageComponent:
			out = append(out, strings.TrimSpace(v.ImageURL))
		case *models.HeaderComponent:
			out = append(out, strings.TrimSpace(v.Logo))
		}
	}
	return lo.Uniq(lo.Compact(out))
}

// Decode sniffs data and reads its pixel size
func Decode(src string, data []byte) (*Image, error) {
	mime := mimetype.Detect(data)
	format, ok := formats[mime.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, mime.String())
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s header: %w", format, err)
	}
	return &Image{Source: src, Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// parseDataURI extracts the payload of a data: URI
func parseDataURI(src string) ([]byte, error) {
	rest := strings.TrimPrefix(src, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("malformed data URI payload: %w", err)
		}
		return data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("malformed data URI payload: %w", err)
	}
	return []byte(text), nil
}
