// Package hocr reads the hOCR output of Tesseract back into plain text,
// keeping paragraph breaks and marking bold words with **.
package hocr

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// Text returns the text of every ocr_par paragraph. Lines of a paragraph
// are joined by newlines and paragraphs by blank lines.
func Text(data []byte) (string, error) {
	decoded, err := decode(data)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return "", fmt.Errorf("parse hOCR: %w", err)
	}

	var paragraphs []string
	var findParagraphs func(*html.Node)
	findParagraphs = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_par") {
			if p := paragraphText(n); p != "" {
				paragraphs = append(paragraphs, p)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findParagraphs(c)
		}
	}
	findParagraphs(doc)

	return strings.Join(paragraphs, "\n\n"), nil
}

// decode converts Latin-1 hOCR to UTF-8. Tesseract writes UTF-8 unless the
// document declares another charset.
func decode(data []byte) ([]byte, error) {
	lower := bytes.ToLower(data)
	idx := bytes.Index(lower, []byte("charset="))
	if idx < 0 {
		return data, nil
	}
	rest := bytes.TrimLeft(lower[idx+len("charset="):], `"'`)
	end := bytes.IndexAny(rest, "\"';> ")
	if end >= 0 {
		rest = rest[:end]
	}
	switch string(rest) {
	case "", "utf-8", "utf8":
		return data, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", rest, err)
	}
	return decoded, nil
}

func paragraphText(par *html.Node) string {
	var lines []string
	var findLines func(*html.Node)
	findLines = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_line") {
			if line := strings.Join(lineWords(n), " "); line != "" {
				lines = append(lines, line)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findLines(c)
		}
	}
	findLines(par)
	return strings.Join(lines, "\n")
}

func lineWords(line *html.Node) []string {
	var words []string
	var findWords func(*html.Node)
	findWords = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			word := strings.TrimSpace(textContent(n))
			if word == "" {
				return
			}
			if isBold(n) {
				word = "**" + word + "**"
			}
			words = append(words, word)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findWords(c)
		}
	}
	findWords(line)
	return words
}

// isBold reports a bold class on the word or a <strong>/<b> inside it.
func isBold(word *html.Node) bool {
	if hasClass(word, "bold") {
		return true
	}
	var found bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && (n.Data == "strong" || n.Data == "b") {
			found = true
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(word)
	return found
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
