// Package docx extracts paragraph text from Word documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MIMEType is the Office Open XML word processing MIME type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise converts a DOCX document to blank-line separated paragraphs.
// Bold runs are wrapped in ** markers.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a docx archive", domain.ErrInvalidInput, raw.URI)
	}

	body, err := readPart(reader, "word/document.xml")
	if err != nil {
		return nil, err
	}
	content, err := parseDocumentXML(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", raw.URI, err)
	}

	title := extractTitle(reader)
	if title == "" {
		title = normalisers.Title(raw)
	}

	return &driven.NormaliseResult{
		Document: normalisers.NewDocument(raw, title, content, "docx"),
	}, nil
}

// readPart returns the bytes of a zip entry, or nil if it is absent.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s", domain.ErrInvalidInput, name)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s", domain.ErrInvalidInput, name)
		}
		return data, nil
	}
	return nil, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Props *runProps     `xml:"rPr"`
	Text  []textElement `xml:"t"`
}

type runProps struct {
	Bold *toggle `xml:"b"`
}

// toggle is an on/off property; an absent val means on.
type toggle struct {
	Val string `xml:"val,attr"`
}

func (r run) bold() bool {
	if r.Props == nil || r.Props.Bold == nil {
		return false
	}
	switch r.Props.Bold.Val {
	case "0", "false", "off":
		return false
	default:
		return true
	}
}

type textElement struct {
	Content string `xml:",chardata"`
}

func parseDocumentXML(content []byte) (string, error) {
	if len(content) == 0 {
		return "", nil
	}
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", err
	}

	paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		if text := strings.TrimSpace(para.text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

func (p paragraph) text() string {
	var b strings.Builder
	inBold := false
	for _, r := range p.Runs {
		var runText strings.Builder
		for _, t := range r.Text {
			runText.WriteString(t.Content)
		}
		if runText.Len() == 0 {
			continue
		}
		if bold := r.bold(); bold != inBold {
			b.WriteString("**")
			inBold = bold
		}
		b.WriteString(runText.String())
	}
	if inBold {
		b.WriteString("**")
	}
	return b.String()
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

func extractTitle(reader *zip.Reader) string {
	data, err := readPart(reader, "docProps/core.xml")
	if err != nil || data == nil {
		return ""
	}
	var core coreXML
	if err := xml.Unmarshal(data, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}
