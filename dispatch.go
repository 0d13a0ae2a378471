package eventpipe

import (
	"path/filepath"
	"strings"
)

// mimeFormats maps exact MIME types to formats. Extension is the fallback for
// missing or generic MIME types.
var mimeFormats = map[string]Format{
	"text/plain":                FormatText,
	"text/markdown":             FormatMarkdown,
	"text/csv":                  FormatCSV,
	"text/tab-separated-values": FormatCSV,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": FormatXLSX,
	"application/vnd.ms-excel": FormatXLSX,
	"application/pdf":          FormatPDF,
	"image/png":                FormatImage,
	"image/jpeg":               FormatImage,
	"image/webp":               FormatImage,
	"image/gif":                FormatImage,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDocx,
	"application/vnd.oasis.opendocument.text":                                 FormatODT,
	"text/html":     FormatHTML,
	"text/calendar": FormatICS,
}

var extFormats = map[string]Format{
	".txt":      FormatText,
	".text":     FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".csv":      FormatCSV,
	".tsv":      FormatCSV,
	".xlsx":     FormatXLSX,
	".pdf":      FormatPDF,
	".png":      FormatImage,
	".jpg":      FormatImage,
	".jpeg":     FormatImage,
	".webp":     FormatImage,
	".gif":      FormatImage,
	".docx":     FormatDocx,
	".odt":      FormatODT,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".ics":      FormatICS,
}

// Detect maps (MIME type, filename extension) to a Format. Pure: it never
// inspects content. MIME wins when recognized; the extension covers missing
// or generic MIME types.
func Detect(mimeType, filename string) (Format, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	ext := strings.ToLower(filepath.Ext(filename))

	if f, ok := mimeFormats[mt]; ok {
		// Browsers commonly label .csv uploads with the legacy Excel MIME;
		// a recognized CSV extension refines it.
		if mt == "application/vnd.ms-excel" && extFormats[ext] == FormatCSV {
			return FormatCSV, nil
		}
		return f, nil
	}

	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", &UnsupportedFormatError{MIMEType: mimeType, Extension: ext}
}
