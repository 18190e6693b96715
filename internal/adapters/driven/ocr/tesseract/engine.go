// Package tesseract provides the local OCR engine. Images are recognised
// with gosseract; PDFs are first rasterised page by page with pdftoppm.
package tesseract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/ocr/hocr"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers/pdf"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// DefaultDPI is the rasterisation resolution for PDF pages.
const DefaultDPI = 300

// Client is the subset of *gosseract.Client the engine uses.
type Client interface {
	SetLanguage(langs ...string) error
	SetPageSegMode(mode gosseract.PageSegMode) error
	SetImageFromBytes(data []byte) error
	HOCRText() (string, error)
	Close() error
}

// Rasteriser renders every page of a PDF to an image.
type Rasteriser interface {
	Rasterise(ctx context.Context, path string) ([][]byte, error)
}

// Engine recognises text with Tesseract.
type Engine struct {
	newClient  func() Client
	rasteriser Rasteriser
}

// Option configures an Engine.
type Option func(*Engine)

// WithClientFactory replaces the gosseract client constructor.
func WithClientFactory(f func() Client) Option {
	return func(e *Engine) {
		e.newClient = f
	}
}

// WithRasteriser replaces the pdftoppm rasteriser.
func WithRasteriser(r Rasteriser) Option {
	return func(e *Engine) {
		e.rasteriser = r
	}
}

// New creates a Tesseract engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		newClient:  func() Client { return gosseract.NewClient() },
		rasteriser: NewPopplerRasteriser(pdf.ExecRunner{}, DefaultDPI),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the engine name for logging.
func (e *Engine) Name() string { return "tesseract" }

// Backend returns the local backend.
func (e *Engine) Backend() domain.OCRBackend { return domain.OCRBackendLocal }

// Recognise extracts text from an image or a PDF. Pages are separated by
// blank lines.
func (e *Engine) Recognise(ctx context.Context, path, lang string) (*domain.OCRResult, error) {
	start := time.Now()

	pages, err := e.pages(ctx, path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := e.recognisePage(page, lang)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		if text == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}

	return &domain.OCRResult{
		Text:    buf.String(),
		Pages:   len(pages),
		Backend: domain.OCRBackendLocal,
		Usage: domain.OCRUsage{
			Calls:          len(pages),
			PagesProcessed: len(pages),
			Duration:       time.Since(start),
		},
	}, nil
}

// Close releases resources. Clients are created per page.
func (e *Engine) Close() error { return nil }

func (e *Engine) pages(ctx context.Context, path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return [][]byte{data}, nil
	}
	pages, err := e.rasteriser.Rasterise(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("rasterise %s: %w", path, err)
	}
	return pages, nil
}

func (e *Engine) recognisePage(image []byte, lang string) (string, error) {
	c := e.newClient()
	defer c.Close()

	if lang == "" {
		lang = domain.DefaultOCRLanguage
	}
	if err := c.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PSM_AUTO_OSD); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	out, err := c.HOCRText()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return hocr.Text([]byte(out))
}

// PopplerRasteriser renders PDF pages to PNG with pdftoppm.
type PopplerRasteriser struct {
	runner pdf.CommandRunner
	dpi    int
}

// NewPopplerRasteriser creates a rasteriser. dpi <= 0 uses DefaultDPI.
func NewPopplerRasteriser(runner pdf.CommandRunner, dpi int) *PopplerRasteriser {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &PopplerRasteriser{runner: runner, dpi: dpi}
}

// Rasterise returns one PNG per page in page order.
func (r *PopplerRasteriser) Rasterise(ctx context.Context, path string) ([][]byte, error) {
	dir, err := os.MkdirTemp("", "ocrsc-pages-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	_, err = r.runner.Run(ctx, "pdftoppm", "-r", strconv.Itoa(r.dpi), "-png", path, prefix)
	if errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("%w: pdftoppm not found in PATH", domain.ErrOCRUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w", err)
	}

	files, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	// pdftoppm zero-pads page numbers to a common width.
	sort.Strings(files)

	pages := make([][]byte, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read page image: %w", err)
		}
		pages = append(pages, data)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages: %w", domain.ErrNotPDF)
	}
	return pages, nil
}
