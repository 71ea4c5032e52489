package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/topcoder-platform/topcoder-cli/client"
)

// ErrLegacyNotFound is returned when no submission carries the legacy id.
var ErrLegacyNotFound = errors.New("no submission found for legacy submission id")

// ArtifactFetcher is the part of the platform client FetchArtifacts needs.
type ArtifactFetcher interface {
	SearchSubmissions(ctx context.Context, q client.SearchQuery) (*client.SubmissionPage, error)
	ListArtifacts(ctx context.Context, submissionID string) ([]string, error)
	DownloadArtifact(ctx context.Context, submissionID, artifactID string) (*client.Download, error)
}

// FetchArtifactsRequest names the submission by exactly one of its ids.
type FetchArtifactsRequest struct {
	Dir                string
	SubmissionID       string
	LegacySubmissionID string
}

// ArtifactsDir is the directory artifacts of submissionID are saved in.
func ArtifactsDir(base, submissionID string) string {
	return filepath.Join(base, fmt.Sprintf("submission-%s-artifacts", baseName(submissionID)))
}

// FetchArtifacts downloads every artifact of a submission into
// <Dir>/submission-<id>-artifacts.
func FetchArtifacts(ctx context.Context, api ArtifactFetcher, logger *slog.Logger,
	req FetchArtifactsRequest) ([]Outcome[string], error) {

	submissionID := req.SubmissionID
	if req.LegacySubmissionID != "" {
		id, err := ResolveLegacyID(ctx, api, req.LegacySubmissionID)
		if err != nil {
			return nil, err
		}
		submissionID = id
	}

	logger.Info(fmt.Sprintf("Listing artifacts for submission ID: %s.", submissionID))
	artifacts, err := api.ListArtifacts(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts for submission %s: %w", submissionID, err)
	}

	if len(artifacts) == 0 {
		logger.Info(fmt.Sprintf("No artifact exists for submission with ID: %s.", submissionID))
		return nil, nil
	}

	savePath := ArtifactsDir(req.Dir, submissionID)
	if err := prepareDir(savePath); err != nil {
		return nil, err
	}

	total := len(artifacts)
	outcomes := make([]Outcome[string], 0, total)
	for idx, artifactID := range artifacts {
		logger.Info(fmt.Sprintf("[%d/%d] Downloading Artifact: [ Artifact ID: %s | Submission ID: %s ]",
			idx+1, total, artifactID, submissionID))

		path, size, err := downloadArtifact(ctx, api, submissionID, artifactID, savePath)
		if err != nil {
			logger.Error(fmt.Sprintf("Couldn't download artifact with id: %s.", artifactID), "error", err)
			outcomes = append(outcomes, Outcome[string]{Item: artifactID, Err: err})
			continue
		}
		logger.Info(fmt.Sprintf("[%d/%d] File saved: [ Location: %s ]", idx+1, total, path), "size", formatSize(size))
		outcomes = append(outcomes, Outcome[string]{Item: artifactID, Value: path})
	}
	return outcomes, nil
}

// ResolveLegacyID translates a legacy submission id to the current one.
func ResolveLegacyID(ctx context.Context, api SubmissionSearcher, legacyID string) (string, error) {
	page, err := api.SearchSubmissions(ctx, client.SearchQuery{LegacySubmissionID: legacyID})
	if err != nil {
		return "", fmt.Errorf("failed to look up legacy submission %s: %w", legacyID, err)
	}
	if len(page.Submissions) == 0 {
		return "", fmt.Errorf("%w: %s", ErrLegacyNotFound, legacyID)
	}
	return page.Submissions[0].ID.String(), nil
}

func downloadArtifact(ctx context.Context, api ArtifactFetcher, submissionID, artifactID, savePath string) (string, int64, error) {
	dl, err := api.DownloadArtifact(ctx, submissionID, artifactID)
	if err != nil {
		return "", 0, err
	}
	return saveDownload(dl, savePath, tempName("artifact", artifactID))
}
