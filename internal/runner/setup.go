package runner

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/topcoder-platform/topcoder-cli/client"
)

// ErrNoFilename is returned when a download carries no usable
// Content-Disposition filename.
var ErrNoFilename = errors.New("response has no content-disposition filename")

// prepareDir creates dir and its parents. An existing directory is fine.
func prepareDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// saveDownload streams dl into tempName inside dir, then renames it to the
// server-provided filename. The temp file is removed on any failure.
// It returns the final path and the number of bytes written.
func saveDownload(dl *client.Download, dir, tempName string) (string, int64, error) {
	defer func() { _ = dl.Body.Close() }()

	tempPath := filepath.Join(dir, tempName)
	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", tempPath, err)
	}

	written, copyErr := io.Copy(f, dl.Body)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to write %s: %w", tempPath, errors.Join(copyErr, closeErr))
	}

	name, err := filenameFromDisposition(dl.ContentDisposition)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, err
	}

	finalPath := filepath.Join(dir, name)
	if err := os.Rename(tempPath, finalPath); err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to move %s to %s: %w", tempPath, finalPath, err)
	}
	return finalPath, written, nil
}

// filenameFromDisposition extracts the filename parameter, reduced to its
// base name.
func filenameFromDisposition(disposition string) (string, error) {
	if strings.TrimSpace(disposition) == "" {
		return "", ErrNoFilename
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return "", fmt.Errorf("invalid content-disposition %q: %w", disposition, err)
	}
	name := baseName(params["filename"])
	if name == "" {
		return "", ErrNoFilename
	}
	return name, nil
}

// tempName is the name a download of kind is streamed to before the server
// filename is known. Only the last path element of id is used.
func tempName(kind, id string) string {
	name := baseName(id)
	if name == "" {
		name = "_"
	}
	return fmt.Sprintf("%s-%s.tcdownload", kind, name)
}

// baseName reduces name to its final element under both slash styles, so
// the result never points outside the directory it is joined to. It is
// empty when nothing usable is left.
func baseName(name string) string {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, `\`, "/")))
	if base == "/" || base == "." {
		return ""
	}
	return base
}

func formatSize(n int64) string {
	if n < 0 {
		return "unknown size"
	}
	return humanize.Bytes(uint64(n))
}
