package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/topcoder-platform/topcoder-cli/client"
)

// ErrMismatch is returned when a requested submission belongs to another
// challenge.
var ErrMismatch = errors.New("Submission doesn't belong to specified challenge.")

// SubmissionFetcher is the part of the platform client FetchSubmissions needs.
type SubmissionFetcher interface {
	GetSubmission(ctx context.Context, submissionID string) (*client.Submission, error)
	SearchSubmissions(ctx context.Context, q client.SearchQuery) (*client.SubmissionPage, error)
	DownloadSubmission(ctx context.Context, submissionID string) (*client.Download, error)
}

// FetchSubmissionsRequest selects what to download. SubmissionID excludes
// MemberID and Latest.
type FetchSubmissionsRequest struct {
	Dir          string
	ChallengeID  string
	MemberID     int64
	SubmissionID string
	Latest       bool
}

// SubmissionsDir is the directory downloads for challengeID are saved in.
func SubmissionsDir(base, challengeID string) string {
	return filepath.Join(base, challengeID+"-submissions")
}

// FetchSubmissions downloads the selected submissions of a challenge into
// <Dir>/<challengeId>-submissions. It returns an error only when the
// selection itself cannot be determined; per-download failures are in the
// outcomes. No directory is created when nothing matches.
func FetchSubmissions(ctx context.Context, api SubmissionFetcher, logger *slog.Logger,
	req FetchSubmissionsRequest) ([]Outcome[string], error) {

	savePath := SubmissionsDir(req.Dir, req.ChallengeID)

	if req.SubmissionID != "" {
		logger.Info(fmt.Sprintf("Getting details about submission with ID: %s.", req.SubmissionID))
		submission, err := api.GetSubmission(ctx, req.SubmissionID)
		if err != nil {
			return nil, fmt.Errorf("failed to get submission %s: %w", req.SubmissionID, err)
		}
		if submission.ChallengeID.String() != req.ChallengeID {
			return nil, ErrMismatch
		}
		if err := prepareDir(savePath); err != nil {
			return nil, err
		}
		return downloadSubmissions(ctx, api, logger, []client.Submission{*submission}, savePath), nil
	}

	submissions, err := SearchAll(ctx, api, client.SearchQuery{
		ChallengeID: req.ChallengeID,
		MemberID:    req.MemberID,
	})
	if err != nil {
		return nil, err
	}

	if req.Latest {
		submissions = LatestPerMember(submissions)
	}

	if len(submissions) == 0 {
		logger.Info(fmt.Sprintf("No submissions exists with specified filters for challenge with ID: %s.", req.ChallengeID))
		return nil, nil
	}

	if err := prepareDir(savePath); err != nil {
		return nil, err
	}
	return downloadSubmissions(ctx, api, logger, submissions, savePath), nil
}

// SubmissionSearcher pages through submission search results.
type SubmissionSearcher interface {
	SearchSubmissions(ctx context.Context, q client.SearchQuery) (*client.SubmissionPage, error)
}

// SearchAll requests pages of DefaultPageSize until the reported total is
// covered or a page comes back empty.
func SearchAll(ctx context.Context, api SubmissionSearcher, q client.SearchQuery) ([]client.Submission, error) {
	var all []client.Submission
	q.PerPage = client.DefaultPageSize
	for page := 1; ; page++ {
		q.Page = page
		res, err := api.SearchSubmissions(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to search submissions (page %d): %w", page, err)
		}
		all = append(all, res.Submissions...)
		if res.Total <= len(all) || len(res.Submissions) == 0 {
			return all, nil
		}
	}
}

// LatestPerMember keeps, for each member, the submission with the latest
// creation time. Members appear in order of their first submission; on a
// timestamp tie the earlier-seen submission is kept.
func LatestPerMember(submissions []client.Submission) []client.Submission {
	latest := make(map[client.ID]int)
	var out []client.Submission
	for _, s := range submissions {
		idx, seen := latest[s.MemberID]
		if !seen {
			latest[s.MemberID] = len(out)
			out = append(out, s)
			continue
		}
		if out[idx].Created.Before(s.Created) {
			out[idx] = s
		}
	}
	return out
}

func downloadSubmissions(ctx context.Context, api SubmissionFetcher, logger *slog.Logger,
	submissions []client.Submission, savePath string) []Outcome[string] {

	total := len(submissions)
	outcomes := make([]Outcome[string], 0, total)
	for idx, submission := range submissions {
		id := submission.ID.String()
		logger.Info(fmt.Sprintf("[%d/%d] Downloading Submission: [ Submission ID: %s | Challenge ID: %s ]",
			idx+1, total, id, submission.ChallengeID))

		path, err := downloadSubmission(ctx, api, id, savePath, logger, idx+1, total)
		if err != nil {
			logger.Error(fmt.Sprintf("Couldn't download submission with id: %s.", id), "error", err)
			outcomes = append(outcomes, Outcome[string]{Item: id, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome[string]{Item: id, Value: path})
	}
	return outcomes
}

func downloadSubmission(ctx context.Context, api SubmissionFetcher, id, savePath string,
	logger *slog.Logger, n, total int) (string, error) {

	dl, err := api.DownloadSubmission(ctx, id)
	if err != nil {
		return "", err
	}
	path, size, err := saveDownload(dl, savePath, tempName("submission", id))
	if err != nil {
		return "", err
	}
	logger.Info(fmt.Sprintf("[%d/%d] File saved: [ Location: %s ]", n, total, path), "size", formatSize(size))
	return path, nil
}
