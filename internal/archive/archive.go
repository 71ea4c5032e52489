// Package archive packs a working directory into the zip uploaded as a
// submission.
package archive

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/zip"
	"github.com/zeebo/blake3"

	"github.com/topcoder-platform/topcoder-cli/internal/config"
)

// DefaultIgnore is always excluded: the rc file, which holds credentials,
// and the npm dependency directory.
var DefaultIgnore = []string{config.RCFileName, "node_modules"}

// Archive is a built zip with the relative paths it contains, in order.
type Archive struct {
	Data    []byte
	Entries []string
	Digest  string
}

// Size returns the compressed size in bytes.
func (a *Archive) Size() int64 {
	return int64(len(a.Data))
}

// Builder packs directories. Ignore holds doublestar patterns matched
// against slash-separated paths relative to the root; a matching directory
// is skipped entirely.
type Builder struct {
	Ignore []string
}

// NewBuilder returns a builder with DefaultIgnore plus extra patterns.
func NewBuilder(extra ...string) *Builder {
	ignore := append(append([]string{}, DefaultIgnore...), extra...)
	return &Builder{Ignore: ignore}
}

// Build zips every file under dir, dotfiles and symlinked files included.
// Files at the root are stored without a prefix; nested files keep their
// relative path.
// Entries are written in lexical order.
func (b *Builder) Build(dir string) (*Archive, error) {
	for _, pattern := range b.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	var entries []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if b.ignored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !isFile(path, d) {
			return nil
		}

		if err := addFile(zw, path, rel); err != nil {
			return err
		}
		entries = append(entries, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to archive %s: %w", dir, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}

	sum := blake3.Sum256(buf.Bytes())
	return &Archive{
		Data:    buf.Bytes(),
		Entries: entries,
		Digest:  hex.EncodeToString(sum[:]),
	}, nil
}

func (b *Builder) ignored(rel string) bool {
	for _, pattern := range b.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// isFile reports whether the walk entry should be archived as a file.
// Symlinks to files count and are stored with the target's contents.
// Symlinks to directories are not descended.
func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func addFile(zw *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = io.Copy(w, f)
	return err
}
