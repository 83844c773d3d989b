package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"mercator-hq/pricebook/pkg/config"
)

// DefaultMaxBytes is the largest file accepted when no limit is configured.
const DefaultMaxBytes int64 = 10 << 20

type parseFunc func(name string, data []byte) (string, error)

var parsers = map[string]parseFunc{
	".txt":  parsePlain,
	".md":   parsePlain,
	".json": parseJSON,
	".csv":  parseCSV,
}

// SupportedExtensions lists the accepted file extensions.
func SupportedExtensions() []string {
	return []string{".txt", ".md", ".json", ".csv", ".pdf"}
}

// Reader converts files into text. The zero value is not usable; use
// NewReader.
type Reader struct {
	maxBytes int64
}

// NewReader creates a reader. A nil cfg or a non-positive limit uses
// DefaultMaxBytes.
func NewReader(cfg *config.IngestConfig) *Reader {
	r := &Reader{maxBytes: DefaultMaxBytes}
	if cfg != nil && cfg.MaxBytes > 0 {
		r.maxBytes = cfg.MaxBytes
	}
	return r
}

// MaxBytes returns the size limit of the reader.
func (r *Reader) MaxBytes() int64 {
	return r.maxBytes
}

// Read reads all of src and converts it to text according to the extension
// of name.
func (r *Reader) Read(name string, src io.Reader) (string, error) {
	ext := Ext(name)
	parse, ok := r.parser(ext)
	if !ok {
		return "", readError(name, fmt.Sprintf("unsupported file type %q (supported: %s)",
			ext, strings.Join(SupportedExtensions(), ", ")), nil)
	}

	data, err := io.ReadAll(io.LimitReader(src, r.maxBytes+1))
	if err != nil {
		return "", readError(name, "read failed", err)
	}
	if int64(len(data)) > r.maxBytes {
		return "", readError(name, fmt.Sprintf("file exceeds the %d byte limit", r.maxBytes), nil)
	}

	return parse(name, data)
}

// parser returns the parse function for ext. PDF parsing is bound to the
// reader's limit since its streams are decompressed after the size check.
func (r *Reader) parser(ext string) (parseFunc, bool) {
	if ext == ".pdf" {
		return func(name string, data []byte) (string, error) {
			return parsePDF(name, data, r.maxBytes)
		}, true
	}
	parse, ok := parsers[ext]
	return parse, ok
}

// ReadFile opens path and reads it with Read.
func (r *Reader) ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", readError(path, "open failed", err)
	}
	defer f.Close()

	return r.Read(filepath.Base(path), f)
}

var defaultReader = NewReader(nil)

// Read converts src to text using the default size limit.
func Read(name string, src io.Reader) (string, error) {
	return defaultReader.Read(name, src)
}

// ReadFile converts the file at path to text using the default size limit.
func ReadFile(path string) (string, error) {
	return defaultReader.ReadFile(path)
}

// Ext returns the lower-cased extension of name, including the dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func parsePlain(name string, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", readError(name, "file is not valid UTF-8 text", nil)
	}
	return string(data), nil
}
