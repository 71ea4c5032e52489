package ui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topcoder-platform/topcoder-cli/client"
	"github.com/topcoder-platform/topcoder-cli/internal/runner"
)

func uploaded(challengeID, submissionID string) runner.Outcome[*client.Submission] {
	return runner.Outcome[*client.Submission]{
		Item:  challengeID,
		Value: &client.Submission{ID: client.ID(submissionID), ChallengeID: client.ID(challengeID)},
	}
}

func TestSubmitSummary(t *testing.T) {
	outcomes := []runner.Outcome[*client.Submission]{
		uploaded("30095545", "s-1"),
		{Item: "30095546", Err: errors.New("HTTP 500")},
		uploaded("30095547", "s-2"),
		uploaded("30095545", "s-3"),
	}

	assert.Equal(t, "challenge_30095545:\ts-1,s-3\nchallenge_30095547:\ts-2", SubmitSummary(outcomes))
}

func TestSubmitSummaryNothingUploaded(t *testing.T) {
	outcomes := []runner.Outcome[*client.Submission]{{Item: "1", Err: errors.New("x")}}

	assert.Empty(t, SubmitSummary(outcomes))
}

func TestAppendSubmitLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), SubmitLogName)
	now := time.UnixMilli(1551434400000)

	require.NoError(t, AppendSubmitLog(path, now, "challenge_1:\ts-1"))
	require.NoError(t, AppendSubmitLog(path, now.Add(time.Second), ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1551434400000:\nchallenge_1:\ts-1\n\n1551434401000:\n\n\n", string(data))
}

func TestPrintSubmitResults(t *testing.T) {
	var buf bytes.Buffer
	PrintSubmitResults(&buf, []runner.Outcome[*client.Submission]{
		uploaded("30095545", "s-1"),
		{Item: "30095546", Err: errors.New("HTTP 500 - boom")},
	})

	out := buf.String()
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "Challenge 30095545")
	assert.Contains(t, out, "submission s-1")
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "HTTP 500 - boom")
	assert.Contains(t, out, "1/2 uploaded")
}

func TestPrintDownloadResults(t *testing.T) {
	var buf bytes.Buffer
	PrintDownloadResults(&buf, "Submission", nil)
	assert.Empty(t, buf.String())

	PrintDownloadResults(&buf, "Artifact", []runner.Outcome[string]{{Item: "a-1", Value: "/tmp/a-1.zip"}})
	assert.Contains(t, buf.String(), "Artifact a-1")
	assert.Contains(t, buf.String(), "1/1 downloaded")
}
