package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchArtifactsBySubmissionID(t *testing.T) {
	api := newFakePlatform()
	api.artifacts["s-1"] = []string{"a-1", "a-2"}
	dir := t.TempDir()

	outcomes, err := FetchArtifacts(context.Background(), api, discardLogger(), FetchArtifactsRequest{
		Dir:          dir,
		SubmissionID: "s-1",
	})
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	target := filepath.Join(dir, "submission-s-1-artifacts")
	assert.Equal(t, filepath.Join(target, "a-1.zip"), outcomes[0].Value)
	data, err := os.ReadFile(filepath.Join(target, "a-2.zip"))
	require.NoError(t, err)
	assert.Equal(t, "artifact a-2", string(data))
	assert.Empty(t, api.searches)
}

func TestFetchArtifactsByLegacyID(t *testing.T) {
	api := newFakePlatform()
	api.legacy["205384"] = "s-9"
	api.artifacts["s-9"] = []string{"a-1"}
	dir := t.TempDir()

	outcomes, err := FetchArtifacts(context.Background(), api, discardLogger(), FetchArtifactsRequest{
		Dir:                dir,
		LegacySubmissionID: "205384",
	})
	require.NoError(t, err)

	require.Len(t, api.searches, 1)
	assert.Equal(t, "205384", api.searches[0].LegacySubmissionID)
	assert.Equal(t, []string{"s-9/a-1"}, api.downloads)
	require.Len(t, outcomes, 1)
	assert.DirExists(t, ArtifactsDir(dir, "s-9"))
}

func TestFetchArtifactsUnknownLegacyID(t *testing.T) {
	api := newFakePlatform()

	_, err := FetchArtifacts(context.Background(), api, discardLogger(), FetchArtifactsRequest{
		Dir:                t.TempDir(),
		LegacySubmissionID: "1",
	})
	assert.ErrorIs(t, err, ErrLegacyNotFound)
}

func TestFetchArtifactsNoneCreatesNoDirectory(t *testing.T) {
	api := newFakePlatform()
	dir := t.TempDir()

	outcomes, err := FetchArtifacts(context.Background(), api, discardLogger(), FetchArtifactsRequest{
		Dir:          dir,
		SubmissionID: "s-1",
	})
	require.NoError(t, err)

	assert.Empty(t, outcomes)
	assert.NoDirExists(t, ArtifactsDir(dir, "s-1"))
}

func TestFetchArtifactsIsolatesFailures(t *testing.T) {
	api := newFakePlatform()
	api.artifacts["s-1"] = []string{"a-1", "a-2", "a-3"}
	api.failGet["a-1"] = errors.New("gone")

	outcomes, err := FetchArtifacts(context.Background(), api, discardLogger(), FetchArtifactsRequest{
		Dir:          t.TempDir(),
		SubmissionID: "s-1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a-1"}, Failed(outcomes))
	assert.Equal(t, []string{"s-1/a-1", "s-1/a-2", "s-1/a-3"}, api.downloads)
}

func TestFetchArtifactsKeepsServerIDsInsideTarget(t *testing.T) {
	api := newFakePlatform()
	api.legacy["205384"] = "../../../s-9"
	api.artifacts["../../../s-9"] = []string{"a/../../../x"}
	root := t.TempDir()
	dir := filepath.Join(root, "out")

	outcomes, err := FetchArtifacts(context.Background(), api, discardLogger(), FetchArtifactsRequest{
		Dir:                dir,
		LegacySubmissionID: "205384",
	})
	require.NoError(t, err)

	require.Len(t, outcomes, 1)
	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, filepath.Join(dir, "submission-s-9-artifacts", "x.zip"), outcomes[0].Value)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out", entries[0].Name())
}
