// Package files validates uploaded files and extracts text or image metadata
// for use as generation context.
package files

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	_ "golang.org/x/image/webp"
)

// MaxFileSize caps uploads at 10MB.
const MaxFileSize = 10 << 20

const (
	previewMaxDim  = 200
	previewQuality = 85
)

var (
	ErrTooLarge        = errors.New("file size exceeds 10MB limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// ExtractionError wraps a failure to parse an otherwise supported file.
type ExtractionError struct {
	err error
}

func (e *ExtractionError) Error() string { return e.err.Error() }
func (e *ExtractionError) Unwrap() error { return e.err }

// IsExtractionError reports whether err came from parsing file content.
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}

// Dimensions holds image width and height in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Result describes a processed upload.
type Result struct {
	Type          string      `json:"type"` // "document" or "image"
	Extension     string      `json:"extension"`
	Size          int         `json:"size"`
	Content       string      `json:"content,omitempty"`
	WordCount     int         `json:"word_count,omitempty"`
	Format        string      `json:"format,omitempty"`
	Dimensions    *Dimensions `json:"dimensions,omitempty"`
	Base64Preview string      `json:"base64_preview,omitempty"`
}

// Process sniffs the MIME type and routes to the matching extractor.
func Process(data []byte) (*Result, error) {
	if len(data) > MaxFileSize {
		return nil, ErrTooLarge
	}

	m := mimetype.Detect(data)
	switch {
	case m.Is("application/pdf"):
		return processPDF(data)
	case m.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return processDOCX(data)
	case m.Is("text/plain"):
		return processText(data)
	case m.Is("image/jpeg"), m.Is("image/png"), m.Is("image/webp"):
		return processImage(data, strings.TrimPrefix(m.Extension(), "."))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, m.String())
}

func processPDF(data []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{err: fmt.Errorf("read pdf: %w", err)}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, &ExtractionError{err: fmt.Errorf("extract pdf text: %w", err)}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return nil, &ExtractionError{err: fmt.Errorf("extract pdf text: %w", err)}
	}

	return documentResult("pdf", len(data), buf.String()), nil
}

// processDOCX walks word/document.xml inside the zip container; paragraph
// ends become newlines.
func processDOCX(data []byte) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{err: fmt.Errorf("read docx: %w", err)}
	}

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return nil, &ExtractionError{err: fmt.Errorf("open docx body: %w", err)}
			}
			break
		}
	}
	if doc == nil {
		return nil, &ExtractionError{err: errors.New("docx has no word/document.xml")}
	}
	defer doc.Close()

	var (
		b      strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(doc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ExtractionError{err: fmt.Errorf("parse docx xml: %w", err)}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "p" {
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return documentResult("docx", len(data), b.String()), nil
}

func processText(data []byte) (*Result, error) {
	return documentResult("txt", len(data), string(data)), nil
}

func processImage(data []byte, ext string) (*Result, error) {
	result := &Result{
		Type:      "image",
		Extension: ext,
		Size:      len(data),
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// corrupt or exotic encodings: metadata only, no preview
		result.Format = strings.ToUpper(ext)
		return result, nil
	}

	result.Format = strings.ToUpper(format)
	result.Dimensions = &Dimensions{Width: cfg.Width, Height: cfg.Height}
	result.Base64Preview = createPreview(data)
	return result, nil
}

// createPreview returns a base64 JPEG thumbnail data URI, or "" when the
// image cannot be decoded.
func createPreview(data []byte) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	thumb := downscale(img, previewMaxDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: previewQuality}); err != nil {
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// downscale bounds an image inside maxDim x maxDim with nearest-neighbor
// sampling. Previews do not need better filtering.
func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	ratio := float64(maxDim) / float64(w)
	if h > w {
		ratio = float64(maxDim) / float64(h)
	}
	nw := int(float64(w) * ratio)
	nh := int(float64(h) * ratio)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, nw, nh))
	for y := 0; y < nh; y++ {
		sy := b.Min.Y + y*h/nh
		for x := 0; x < nw; x++ {
			sx := b.Min.X + x*w/nw
			out.Set(x, y, img.At(sx, sy))
		}
	}
	return out
}

func documentResult(ext string, size int, content string) *Result {
	content = strings.TrimSpace(content)
	return &Result{
		Type:      "document",
		Extension: ext,
		Size:      size,
		Content:   content,
		WordCount: len(strings.Fields(content)),
	}
}
