package tesseract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/otiai10/gosseract/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// fakeClient returns hOCR naming the image it was given.
type fakeClient struct {
	lang   string
	mode   gosseract.PageSegMode
	image  []byte
	err    error
	closed *int
}

func (c *fakeClient) SetLanguage(langs ...string) error {
	c.lang = langs[0]
	return nil
}

func (c *fakeClient) SetPageSegMode(mode gosseract.PageSegMode) error {
	c.mode = mode
	return nil
}

func (c *fakeClient) SetImageFromBytes(data []byte) error {
	c.image = data
	return nil
}

func (c *fakeClient) HOCRText() (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return fmt.Sprintf(`<p class="ocr_par"><span class="ocr_line"><span class="ocrx_word">%s</span>`+
		`<span class="ocrx_word"><strong>%s</strong></span></span></p>`, c.image, c.lang), nil
}

func (c *fakeClient) Close() error {
	*c.closed++
	return nil
}

type fakeRasteriser struct {
	pages [][]byte
	err   error
}

func (r *fakeRasteriser) Rasterise(context.Context, string) ([][]byte, error) {
	return r.pages, r.err
}

func newTestEngine(clientErr error, rast *fakeRasteriser) (*Engine, *int) {
	closed := 0
	e := New(
		WithClientFactory(func() Client { return &fakeClient{err: clientErr, closed: &closed} }),
		WithRasteriser(rast),
	)
	return e, &closed
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestEngine_Metadata(t *testing.T) {
	e := New()
	assert.Equal(t, "tesseract", e.Name())
	assert.Equal(t, domain.OCRBackendLocal, e.Backend())
	assert.NoError(t, e.Close())
}

func TestEngine_RecogniseImage(t *testing.T) {
	e, closed := newTestEngine(nil, &fakeRasteriser{})
	path := writeFile(t, "scan.png", "IMG")

	result, err := e.Recognise(context.Background(), path, "eng")

	require.NoError(t, err)
	assert.Equal(t, "IMG **eng**", result.Text)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, domain.OCRBackendLocal, result.Backend)
	assert.Equal(t, 1, result.Usage.Calls)
	assert.Equal(t, 1, *closed)
}

func TestEngine_RecognisePDF(t *testing.T) {
	e, closed := newTestEngine(nil, &fakeRasteriser{pages: [][]byte{[]byte("P1"), []byte("P2")}})
	path := writeFile(t, "doc.pdf", "%PDF-1.4 scanned")

	result, err := e.Recognise(context.Background(), path, "")

	require.NoError(t, err)
	assert.Equal(t, "P1 **por**\n\nP2 **por**", result.Text)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 2, result.Usage.PagesProcessed)
	assert.Equal(t, 2, *closed)
}

func TestEngine_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		e, _ := newTestEngine(nil, &fakeRasteriser{})
		_, err := e.Recognise(context.Background(), filepath.Join(t.TempDir(), "none.png"), "por")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("rasteriser failure", func(t *testing.T) {
		e, _ := newTestEngine(nil, &fakeRasteriser{err: domain.ErrOCRUnavailable})
		_, err := e.Recognise(context.Background(), writeFile(t, "a.pdf", "%PDF-1.7"), "por")
		assert.ErrorIs(t, err, domain.ErrOCRUnavailable)
	})

	t.Run("recognition failure", func(t *testing.T) {
		boom := errors.New("tesseract crashed")
		e, closed := newTestEngine(boom, &fakeRasteriser{})
		_, err := e.Recognise(context.Background(), writeFile(t, "a.png", "x"), "por")
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "page 1")
		assert.Equal(t, 1, *closed)
	})

	t.Run("cancelled", func(t *testing.T) {
		e, _ := newTestEngine(nil, &fakeRasteriser{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.Recognise(ctx, writeFile(t, "a.png", "x"), "por")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// pageRunner imitates pdftoppm by writing numbered page files.
type pageRunner struct {
	pages int
	err   error
	args  []string
}

func (r *pageRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.args = append([]string{name}, args...)
	if r.err != nil {
		return nil, r.err
	}
	prefix := args[len(args)-1]
	for i := r.pages; i >= 1; i-- {
		if err := os.WriteFile(fmt.Sprintf("%s-%02d.png", prefix, i), []byte(fmt.Sprintf("page%d", i)), 0600); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func TestPopplerRasteriser(t *testing.T) {
	runner := &pageRunner{pages: 11}
	pages, err := NewPopplerRasteriser(runner, 0).Rasterise(context.Background(), "/docs/in.pdf")

	require.NoError(t, err)
	require.Len(t, pages, 11)
	assert.Equal(t, "page1", string(pages[0]))
	assert.Equal(t, "page11", string(pages[10]))
	assert.Equal(t, []string{"pdftoppm", "-r", "300", "-png", "/docs/in.pdf"}, runner.args[:5])
}

func TestPopplerRasteriser_Errors(t *testing.T) {
	t.Run("tool missing", func(t *testing.T) {
		_, err := NewPopplerRasteriser(&pageRunner{err: exec.ErrNotFound}, 150).Rasterise(context.Background(), "x.pdf")
		assert.ErrorIs(t, err, domain.ErrOCRUnavailable)
	})

	t.Run("no pages", func(t *testing.T) {
		_, err := NewPopplerRasteriser(&pageRunner{}, 150).Rasterise(context.Background(), "x.pdf")
		assert.ErrorIs(t, err, domain.ErrNotPDF)
	})
}
