// Package ingest turns uploaded files into prompt text.
//
// Supported extensions are .txt, .md, .json, .csv and .pdf. Text formats are
// returned as-is after a UTF-8 check. JSON is flattened into "path: value"
// lines, CSV rows are written back as "header: value" pairs, and PDF page text
// is extracted with github.com/ledongthuc/pdf. Decompressed PDF content counts
// against the same size limit as the upload.
//
// Every failure is a *FileReadError, which matches ErrFileRead with
// errors.Is. Files are read into memory only; nothing is written to disk.
package ingest
