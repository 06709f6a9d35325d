package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/examcraft/internal/app/models"
)

// FileReader reads files kept by the upload storage
type FileReader interface {
	ReadFile(fileURL string) ([]byte, error)
}

// Config tunes the Loader
type Config struct {
	Timeout     time.Duration // per fetch
	MaxBytes    int64
	Concurrency int
	// LocalDir enables plain filesystem paths relative to it (CLI use)
	LocalDir string
}

// Loader fetches http(s) URLs, data: URIs and /uploads paths
type Loader struct {
	cfg    Config
	client *http.Client
	files  FileReader
	log    zerolog.Logger
}

// NewLoader creates a Loader. files may be nil when uploads are not served.
func NewLoader(cfg Config, files FileReader, log zerolog.Logger) *Loader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10 << 20
	}
	return &Loader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		files:  files,
		log:    log,
	}
}

// WithHTTPClient replaces the client used for remote images
func (l *Loader) WithHTTPClient(c *http.Client) *Loader {
	l.client = c
	return l
}

// Prefetch loads every image referenced by cs. A failed image is logged
// and left out of the set; it never fails the export.
func (l *Loader) Prefetch(ctx context.Context, cs []models.Component) Set {
	sources := Sources(cs)
	set := make(Set, len(sources))
	if len(sources) == 0 {
		return set
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.Concurrency)
	for _, src := range sources {
		g.Go(func() error {
			img, err := l.Load(gctx, src)
			if err != nil {
				l.log.Warn().Err(err).Str("source", abbreviate(src)).Msg("Image could not be loaded, rendering placeholder")
				return nil
			}
			mu.Lock()
			set[src] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	l.log.Debug().Int("requested", len(sources)).Int("loaded", len(set)).Msg("Images prefetched")
	return set
}

// Load fetches and decodes a single image
func (l *Loader) Load(ctx context.Context, src string) (*Image, error) {
	data, err := l.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.cfg.MaxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", l.cfg.MaxBytes)
	}
	return Decode(src, data)
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return parseDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetchRemote(ctx, src)
	case strings.HasPrefix(src, "/uploads/") && l.files != nil:
		return l.files.ReadFile(src)
	case l.cfg.LocalDir != "":
		path := src
		if !filepath.IsAbs(path) {
			path = filepath.Join(l.cfg.LocalDir, path)
		}
		return os.ReadFile(path)
	}
	return nil, fmt.Errorf("unsupported image source")
}

func (l *Loader) fetchRemote(ctx context.Context, src string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, l.cfg.MaxBytes+1))
}

// abbreviate keeps data URIs out of the logs
func abbreviate(src string) string {
	if len(src) > 80 {
		return src[:77] + "..."
	}
	return src
}
