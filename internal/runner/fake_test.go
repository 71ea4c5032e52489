package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/topcoder-platform/topcoder-cli/client"
)

// fakePlatform is an in-memory stand-in for the platform client.
type fakePlatform struct {
	mu sync.Mutex

	submissions map[string]client.Submission
	searchPages [][]client.Submission
	searchTotal int
	searchErr   error
	legacy      map[string]string
	artifacts   map[string][]string
	failCreate  map[string]error
	failGet     map[string]error

	created   []client.SubmissionPayload
	searches  []client.SearchQuery
	downloads []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		submissions: make(map[string]client.Submission),
		legacy:      make(map[string]string),
		artifacts:   make(map[string][]string),
		failCreate:  make(map[string]error),
		failGet:     make(map[string]error),
	}
}

func (f *fakePlatform) CreateSubmission(_ context.Context, p client.SubmissionPayload) (*client.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	if err, ok := f.failCreate[p.ChallengeID]; ok {
		return nil, err
	}
	return &client.Submission{
		ID:          client.ID("sub-" + p.ChallengeID),
		ChallengeID: client.ID(p.ChallengeID),
		MemberID:    client.ID(fmt.Sprint(p.MemberID)),
	}, nil
}

func (f *fakePlatform) GetSubmission(_ context.Context, id string) (*client.Submission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, &client.StatusError{StatusCode: 404, Body: "not found"}
	}
	return &s, nil
}

func (f *fakePlatform) SearchSubmissions(_ context.Context, q client.SearchQuery) (*client.SubmissionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, q)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if q.LegacySubmissionID != "" {
		id, ok := f.legacy[q.LegacySubmissionID]
		if !ok {
			return &client.SubmissionPage{}, nil
		}
		return &client.SubmissionPage{Submissions: []client.Submission{{ID: client.ID(id)}}, Total: 1}, nil
	}
	idx := q.Page - 1
	if idx < 0 || idx >= len(f.searchPages) {
		return &client.SubmissionPage{Total: f.searchTotal}, nil
	}
	return &client.SubmissionPage{Submissions: f.searchPages[idx], Total: f.searchTotal}, nil
}

func (f *fakePlatform) DownloadSubmission(_ context.Context, id string) (*client.Download, error) {
	f.mu.Lock()
	f.downloads = append(f.downloads, id)
	f.mu.Unlock()
	if err, ok := f.failGet[id]; ok {
		return nil, err
	}
	return fileDownload(id+".zip", "submission "+id), nil
}

func (f *fakePlatform) ListArtifacts(_ context.Context, submissionID string) ([]string, error) {
	return f.artifacts[submissionID], nil
}

func (f *fakePlatform) DownloadArtifact(_ context.Context, submissionID, artifactID string) (*client.Download, error) {
	f.mu.Lock()
	f.downloads = append(f.downloads, submissionID+"/"+artifactID)
	f.mu.Unlock()
	if err, ok := f.failGet[artifactID]; ok {
		return nil, err
	}
	return fileDownload(artifactID+".zip", "artifact "+artifactID), nil
}

func fileDownload(name, body string) *client.Download {
	return &client.Download{
		Body:               io.NopCloser(strings.NewReader(body)),
		ContentDisposition: fmt.Sprintf(`attachment; filename="%s"`, name),
		ContentLength:      int64(len(body)),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
