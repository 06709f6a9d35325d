package services

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/pdf/correction"
	"github.com/yigit/examcraft/internal/pdf/images"
	"github.com/yigit/examcraft/internal/pdf/paginate"
	"github.com/yigit/examcraft/internal/pdf/render"
	"github.com/yigit/examcraft/internal/pdf/surface"
	"github.com/yigit/examcraft/internal/pdf/watermark"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9] with "_"
func SanitizeFilename(title string) string {
	return unsafeFilenameChars.ReplaceAllString(title, "_")
}

// ExamFilename is the attachment name of an exported exam
func ExamFilename(title string) string {
	return SanitizeFilename(title) + "_exam.pdf"
}

// CorrectionGridFilename is the attachment name of a correction grid
func CorrectionGridFilename(title string) string {
	return SanitizeFilename(title) + "_correction_grid.pdf"
}

// ExportConfig tunes every export
type ExportConfig struct {
	MarginX           float64
	MarginY           float64
	DefaultWatermark  string
	SeedByComponentID bool
}

// ImagePrefetcher loads the pictures of an exam before layout
type ImagePrefetcher interface {
	Prefetch(ctx context.Context, cs []models.Component) images.Set
}

// PDFDocument is a finished export
type PDFDocument struct {
	Filename string
	Data     []byte
	Pages    int
}

// ExportService turns component lists into PDF documents
type ExportService struct {
	examService ExamService
	images      ImagePrefetcher
	config      ExportConfig
	logger      zerolog.Logger
	newSurface  func(title string) surface.Surface

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewExportService creates a new ExportService. imgs may be nil, images are
// then drawn as placeholders.
func NewExportService(examService ExamService, imgs ImagePrefetcher, config ExportConfig, logger zerolog.Logger) *ExportService {
	return &ExportService{
		examService: examService,
		images:      imgs,
		config:      config,
		logger:      logger,
		newSurface:  func(title string) surface.Surface { return surface.NewPDF(title) },
		inFlight:    make(map[string]struct{}),
	}
}

// ExportExam exports a stored exam of userID. A second export of the same
// exam while one is running fails with ErrExportInProgress.
func (s *ExportService) ExportExam(ctx context.Context, userID, examID string, opts dto.ExportOptions) (*PDFDocument, error) {
	exam, err := s.examService.Get(ctx, userID, examID)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(userID + "/" + examID)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.Export(ctx, exam.Title, exam.Components, opts)
}

// CorrectionGridForExam builds the grading sheet of a stored exam
func (s *ExportService) CorrectionGridForExam(ctx context.Context, userID, examID string) (*PDFDocument, error) {
	exam, err := s.examService.Get(ctx, userID, examID)
	if err != nil {
		return nil, err
	}
	return s.CorrectionGrid(exam.Title, exam.Components)
}

// Export runs the whole pipeline on an in-memory exam
func (s *ExportService) Export(ctx context.Context, title string, cs []models.Component, opts dto.ExportOptions) (*PDFDocument, error) {
	if isEmpty(cs) {
		return nil, apperrors.ErrEmptyExam
	}
	log := s.logger.With().Str("title", title).Logger()
	cs = models.Sorted(cs)

	var imgs images.Set
	if s.images != nil {
		imgs = s.images.Prefetch(ctx, cs)
	}

	layoutOpts := paginate.Options{MarginX: s.config.MarginX, MarginY: s.config.MarginY, Log: log}
	pdf := s.newSurface(title)
	doc := render.New(pdf, imgs, log).
		WithWidth(layoutOpts.ContentWidth()).
		Render(title, cs, render.Options{
			HidePoints:        opts.HidePoints,
			AutoNumbering:     opts.AutoNumbering,
			SeedByComponentID: s.config.SeedByComponentID,
		})

	pages, err := paginate.Compose(doc, pdf, layoutOpts)
	if err != nil {
		log.Error().Err(err).Msg("Export failed")
		return nil, err
	}

	text := opts.Watermark
	if strings.TrimSpace(text) == "" {
		text = s.config.DefaultWatermark
	}
	if err := watermark.Apply(pdf, text); err != nil {
		log.Error().Err(err).Msg("Watermark failed")
		return nil, err
	}

	data, err := output(pdf)
	if err != nil {
		return nil, err
	}
	log.Info().Int("pages", pages).Int("bytes", len(data)).Msg("Exam exported")
	return &PDFDocument{Filename: ExamFilename(title), Data: data, Pages: pages}, nil
}

// CorrectionGrid builds the grading sheet of an in-memory exam
func (s *ExportService) CorrectionGrid(title string, cs []models.Component) (*PDFDocument, error) {
	if isEmpty(cs) {
		return nil, apperrors.ErrEmptyExam
	}

	pdf := s.newSurface(title)
	pages, err := correction.Draw(correction.Build(title, models.Sorted(cs)), pdf)
	if err != nil {
		s.logger.Error().Err(err).Str("title", title).Msg("Correction grid failed")
		return nil, err
	}
	data, err := output(pdf)
	if err != nil {
		return nil, err
	}
	return &PDFDocument{Filename: CorrectionGridFilename(title), Data: data, Pages: pages}, nil
}

func (s *ExportService) acquire(key string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return nil, apperrors.ErrExportInProgress
	}
	s.inFlight[key] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()
	}, nil
}

func isEmpty(cs []models.Component) bool {
	return !lo.ContainsBy(cs, func(c models.Component) bool { return c != nil })
}

func output(s surface.Surface) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}
