package runner

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topcoder-platform/topcoder-cli/client"
)

func TestFilenameFromDisposition(t *testing.T) {
	cases := map[string]string{
		`attachment; filename="30095545.zip"`:  "30095545.zip",
		`attachment; filename=report.txt`:      "report.txt",
		`attachment; filename="../../etc/pwd"`: "pwd",
		`attachment; filename="..\\evil.zip"`:  "evil.zip",
	}
	for disposition, want := range cases {
		got, err := filenameFromDisposition(disposition)
		require.NoError(t, err, disposition)
		assert.Equal(t, want, got, disposition)
	}
}

func TestFilenameFromDispositionMissing(t *testing.T) {
	_, err := filenameFromDisposition("")
	assert.ErrorIs(t, err, ErrNoFilename)

	_, err = filenameFromDisposition("attachment")
	assert.ErrorIs(t, err, ErrNoFilename)
}

func TestSaveDownloadRemovesTempFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	dl := &client.Download{Body: io.NopCloser(strings.NewReader("data"))}

	_, _, err := saveDownload(dl, dir, "x.tcdownload")
	assert.ErrorIs(t, err, ErrNoFilename)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveDownload(t *testing.T) {
	dir := t.TempDir()
	dl := fileDownload("out.zip", "hello")

	path, written, err := saveDownload(dl, dir, "x.tcdownload")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "out.zip"), path)
	assert.Equal(t, int64(5), written)
	assert.NoFileExists(t, filepath.Join(dir, "x.tcdownload"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "2.0 kB", formatSize(2000))
	assert.Equal(t, "unknown size", formatSize(-1))
}

func TestTempNameStaysInDirectory(t *testing.T) {
	assert.Equal(t, "artifact-x.tcdownload", tempName("artifact", "a/../../../x"))
	assert.Equal(t, "submission-evil.tcdownload", tempName("submission", `..\..\evil`))
	assert.Equal(t, "submission-s-1.tcdownload", tempName("submission", "s-1"))
	assert.Equal(t, "artifact-_.tcdownload", tempName("artifact", "../.."))
}

func TestSaveDownloadWithTraversingID(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "out")
	require.NoError(t, prepareDir(dir))

	path, _, err := saveDownload(fileDownload("x.zip", "data"), dir, tempName("artifact", "a/../../../x"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "x.zip"), path)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out", entries[0].Name())
}
