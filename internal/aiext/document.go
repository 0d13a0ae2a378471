package aiext

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DocxText pulls paragraph text from a .docx file (word/document.xml inside
// the ZIP container). Paragraph boundaries become newlines so schedule-style
// layouts survive.
func DocxText(data []byte) (string, error) {
	return zipXMLText(data, "word/document.xml", "docx")
}

// ODTText pulls paragraph and heading text from an OpenDocument text file
// (content.xml inside the ZIP container).
func ODTText(data []byte) (string, error) {
	return zipXMLText(data, "content.xml", "odt")
}

// zipXMLText opens the named XML part and flattens its paragraph-like
// elements (p, h) to plain text, one element per line. Both OOXML and
// OpenDocument use these local names for text content.
func zipXMLText(data []byte, part, kind string) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%s: open container: %w", kind, err)
	}

	var xmlFile *zip.File
	for _, f := range r.File {
		if f.Name == part {
			xmlFile = f
			break
		}
	}
	if xmlFile == nil {
		return "", fmt.Errorf("%s: %s not found in archive", kind, part)
	}

	rc, err := xmlFile.Open()
	if err != nil {
		return "", fmt.Errorf("%s: open %s: %w", kind, part, err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var sb strings.Builder
	var cur strings.Builder
	depth := 0 // nesting depth of paragraph-like elements

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" || t.Name.Local == "h" {
				if depth == 0 {
					cur.Reset()
				}
				depth++
			}
		case xml.CharData:
			if depth > 0 {
				cur.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "h" {
				depth--
				if depth == 0 {
					if text := strings.TrimSpace(cur.String()); text != "" {
						sb.WriteString(text)
						sb.WriteByte('\n')
					}
				}
			}
		}
	}

	return sb.String(), nil
}

// HTMLText extracts visible text from an HTML document, skipping scripts,
// styles and navigation chrome. Block elements are separated by newlines.
func HTMLText(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Title,
				atom.Nav, atom.Footer, atom.Header:
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			sb.WriteByte('\n')
		}
	}
	walk(doc)
	return sb.String(), nil
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Tr, atom.Br,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Table, atom.Ul, atom.Ol, atom.Section, atom.Article:
		return true
	}
	return false
}

// HTMLMarkdown renders sanitized HTML as Markdown, preserving table and list
// structure for the completion prompt. Falls back to plain text extraction
// when conversion fails.
func HTMLMarkdown(data []byte) string {
	clean := bluemonday.UGCPolicy().SanitizeBytes(data)
	md, err := htmltomarkdown.ConvertString(string(clean))
	if err != nil || strings.TrimSpace(md) == "" {
		text, err := HTMLText(data)
		if err != nil {
			return ""
		}
		return text
	}
	return md
}
