// Package fileio opens report files, transparently decompressing
// xz-compressed ones (e.g. coverage.xml.xz) so every parser sees plain bytes.
package fileio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

const xzExtension = ".xz"

type xzFile struct {
	io.Reader
	file *os.File
}

func (f *xzFile) Close() error {
	return f.file.Close()
}

// Open returns a reader over the file content. The caller must close it.
func Open(path string) (io.ReadCloser, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file %s", path)
	}
	if !IsCompressed(path) {
		return fd, nil
	}

	zr, err := xz.NewReader(bufio.NewReader(fd))
	if err != nil {
		fd.Close()
		return nil, errors.Wrapf(err, "failed to read xz stream of %s", path)
	}
	return &xzFile{Reader: zr, file: fd}, nil
}

// ReadAll loads the whole (decompressed) file content.
func ReadAll(path string) ([]byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", path)
	}
	return data, nil
}

// IsCompressed reports whether the path names an xz file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), xzExtension)
}

// TrimCompression drops the compression suffix so the inner extension can be
// inspected, e.g. "results.json.xz" becomes "results.json".
func TrimCompression(path string) string {
	if IsCompressed(path) {
		return path[:len(path)-len(xzExtension)]
	}
	return path
}
