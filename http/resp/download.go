package resp

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how many leading bytes of a file are inspected for its content type.
const sniffLen = 3072

const defaultDownloadType = "application/octet-stream"

// typeByName infers a media type from filename's extension without reading any content.
func typeByName(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}

	return defaultDownloadType
}

// sniffFile detects the media type of f's first bytes, then rewinds f.
func sniffFile(f *os.File) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	return mimetype.Detect(head[:n]).String(), nil
}

func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

func openDownload(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalid, err)
	}

	if fi.IsDir() {
		f.Close()
		return nil, 0, fmt.Errorf("%w: %s is a directory", ErrInvalid, path)
	}

	return f, fi.Size(), nil
}

func downloadName(path, filename string) string {
	if filename != "" {
		return filename
	}

	return filepath.Base(path)
}

func formatSize(n int64) string { return strconv.FormatInt(n, 10) }
