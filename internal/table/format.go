package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrUnsupportedFormat is returned for unknown extensions or unsupported directions.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Format identifies a file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// ReadOptions controls Read and ReadFile.
type ReadOptions struct {
	// Format overrides extension-based detection.
	Format Format
	// Sheet selects the worksheet for XLSX (default: first sheet) or a CSS
	// selector for HTML (default: first <table>).
	Sheet string
}

// WriteOptions controls Write and WriteFile.
type WriteOptions struct {
	Format Format
	// Sheet names the XLSX worksheet (default "Sheet1").
	Sheet string
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadFile reads the table stored at path.
func ReadFile(path string, opts ReadOptions) (*Table, error) {
	if opts.Format == "" {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}

		opts.Format = f
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}

	return t, nil
}

// Read decodes a table in opts.Format from r.
func Read(r io.Reader, opts ReadOptions) (*Table, error) {
	switch opts.Format {
	case FormatCSV:
		return readDelimited(r, ',')
	case FormatTSV:
		return readDelimited(r, '\t')
	case FormatXLSX:
		return readXLSX(r, opts.Sheet)
	case FormatHTML:
		return readHTML(r, opts.Sheet)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}
}

// WriteFile writes t to path, creating parent directories as needed.
func WriteFile(path string, t *Table, opts WriteOptions) error {
	if opts.Format == "" {
		f, err := DetectFormat(path)
		if err != nil {
			return err
		}

		opts.Format = f
	}

	if opts.Format == FormatHTML {
		return fmt.Errorf("%w: writing %s", ErrUnsupportedFormat, opts.Format)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", path, err)
	}

	if err := Write(f, t, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write table %s: %w", path, err)
	}

	return f.Close()
}

// Write encodes t in opts.Format to w.
func Write(w io.Writer, t *Table, opts WriteOptions) error {
	switch opts.Format {
	case FormatCSV:
		return writeDelimited(w, t, ',')
	case FormatTSV:
		return writeDelimited(w, t, '\t')
	case FormatXLSX:
		return writeXLSX(w, t, opts.Sheet)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}
}
