package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/app/services"
	"github.com/yigit/examcraft/internal/pdf/images"
	"github.com/yigit/examcraft/internal/pkg/logger"
)

// examFile is the JSON an editor saves: a title and its components
type examFile struct {
	Title      string            `json:"title"`
	Components models.Components `json:"components"`
}

func newApp() *cli.App {
	inFlag := &cli.PathFlag{Name: "in", Aliases: []string{"i"}, Usage: "exam JSON file", Required: true}
	outFlag := &cli.PathFlag{Name: "out", Aliases: []string{"o"}, Usage: "output PDF (default: derived from the title, next to the input)"}

	return &cli.App{
		Name:  "examctl",
		Usage: "export exams to PDF without the API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
			&cli.DurationFlag{Name: "image-timeout", Value: 10 * time.Second, Usage: "per image fetch"},
			&cli.Float64Flag{Name: "margin-x", Value: 20},
			&cli.Float64Flag{Name: "margin-y", Value: 15},
		},
		Before: func(c *cli.Context) error {
			logger.Configure(logger.Config{Level: logger.ParseLevel(c.String("log-level")), Format: logger.FormatText, Output: c.App.ErrWriter})
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "render an exam to PDF",
				Flags: []cli.Flag{
					inFlag, outFlag,
					&cli.BoolFlag{Name: "hide-points", Usage: "omit the points of every question"},
					&cli.StringFlag{Name: "watermark", Usage: "diagonal text on every page"},
					&cli.BoolFlag{Name: "no-numbering", Usage: "do not prefix questions with Q1., Q2., ..."},
				},
				Action: func(c *cli.Context) error {
					exam, err := readExam(c.Path("in"))
					if err != nil {
						return err
					}
					if len(c.String("watermark")) > 40 {
						return cli.Exit("watermark must be at most 40 characters", 2)
					}
					doc, err := exporter(c).Export(c.Context, exam.Title, exam.Components, dto.ExportOptions{
						HidePoints:    c.Bool("hide-points"),
						Watermark:     c.String("watermark"),
						AutoNumbering: !c.Bool("no-numbering"),
					})
					if err != nil {
						return err
					}
					return writeDoc(c, doc)
				},
			},
			{
				Name:  "grid",
				Usage: "render the correction grid of an exam",
				Flags: []cli.Flag{inFlag, outFlag},
				Action: func(c *cli.Context) error {
					exam, err := readExam(c.Path("in"))
					if err != nil {
						return err
					}
					doc, err := exporter(c).CorrectionGrid(exam.Title, exam.Components)
					if err != nil {
						return err
					}
					return writeDoc(c, doc)
				},
			},
			{
				Name:  "summary",
				Usage: "print points and component counts",
				Flags: []cli.Flag{inFlag, &cli.BoolFlag{Name: "json", Usage: "print JSON"}},
				Action: func(c *cli.Context) error {
					exam, err := readExam(c.Path("in"))
					if err != nil {
						return err
					}
					s := models.Summarize(exam.Components)
					if c.Bool("json") {
						enc := json.NewEncoder(c.App.Writer)
						enc.SetIndent("", "  ")
						return enc.Encode(s)
					}
					fmt.Fprintf(c.App.Writer, "%s\n", exam.Title)
					fmt.Fprintf(c.App.Writer, "total points: %g\n", s.TotalPoints)
					fmt.Fprintf(c.App.Writer, "components: %d, questions: %d, exercises: %d, page breaks: %d\n",
						s.ComponentCount, s.QuestionCount, s.ExerciseCount, s.PageBreaks)
					for _, b := range s.Breakdown {
						fmt.Fprintf(c.App.Writer, "  %-15s %3d  %g pts\n", b.Type, b.Count, b.Points)
					}
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "check component ids, orders and fields",
				Flags: []cli.Flag{inFlag},
				Action: func(c *cli.Context) error {
					exam, err := readExam(c.Path("in"))
					if err != nil {
						return err
					}
					var invalid *models.ValidationError
					if err := models.Validate(exam.Components); errors.As(err, &invalid) {
						for _, issue := range invalid.Issues {
							fmt.Fprintf(c.App.Writer, "%s %s: %s\n", issue.ComponentID, issue.Field, issue.Message)
						}
						return cli.Exit(fmt.Sprintf("%d issue(s) found", len(invalid.Issues)), 1)
					} else if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "ok")
					return nil
				},
			},
		},
	}
}

func readExam(path string) (*examFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exam: %w", err)
	}
	var exam examFile
	if err := json.Unmarshal(data, &exam); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if strings.TrimSpace(exam.Title) == "" {
		exam.Title = models.DefaultExamTitle
	}
	return &exam, nil
}

// exporter builds the offline pipeline. Relative image paths resolve against
// the directory of the input file.
func exporter(c *cli.Context) *services.ExportService {
	log := logger.Logger()
	loader := images.NewLoader(images.Config{
		Timeout:  c.Duration("image-timeout"),
		LocalDir: filepath.Dir(c.Path("in")),
	}, nil, log)
	return services.NewExportService(nil, loader, services.ExportConfig{
		MarginX: c.Float64("margin-x"),
		MarginY: c.Float64("margin-y"),
	}, log.With().Str("component", "examctl").Logger())
}

func writeDoc(c *cli.Context, doc *services.PDFDocument) error {
	out := c.Path("out")
	if out == "" {
		out = filepath.Join(filepath.Dir(c.Path("in")), doc.Filename)
	}
	if err := os.WriteFile(out, doc.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(c.App.Writer, "%s (%d pages)\n", out, doc.Pages)
	return nil
}
