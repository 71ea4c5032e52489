package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/topcoder-platform/topcoder-cli/client"
)

// SubmissionCreator is the part of the platform client Submit needs.
type SubmissionCreator interface {
	CreateSubmission(ctx context.Context, payload client.SubmissionPayload) (*client.Submission, error)
}

// Submit uploads the same archive to every challenge in challengeIDs, in
// order. It returns one outcome per challenge id.
func Submit(ctx context.Context, api SubmissionCreator, logger *slog.Logger,
	name string, data []byte, memberID int64, challengeIDs []string) []Outcome[*client.Submission] {

	total := len(challengeIDs)
	outcomes := make([]Outcome[*client.Submission], 0, total)

	for idx, challengeID := range challengeIDs {
		logger.Info(fmt.Sprintf("[%d/%d] Uploading Submission: [ Challenge ID: %s ]", idx+1, total, challengeID))

		payload := client.SubmissionPayload{
			MemberID:    memberID,
			ChallengeID: challengeID,
			Type:        client.ContestSubmissionType,
			Submission: client.SubmissionFile{
				Name: name,
				Data: data,
			},
		}
		submission, err := api.CreateSubmission(ctx, payload)
		if err != nil {
			logger.Error(fmt.Sprintf("Error while uploading submission to challenge ID %s. Detail - %s",
				challengeID, formatUploadError(err)))
			outcomes = append(outcomes, Outcome[*client.Submission]{Item: challengeID, Err: err})
			continue
		}

		logger.Info(fmt.Sprintf("[%d/%d] Uploaded Submission: [ Submission ID: %s | Challenge ID: %s ]",
			idx+1, total, submission.ID, submission.ChallengeID))
		outcomes = append(outcomes, Outcome[*client.Submission]{Item: challengeID, Value: submission})
	}
	return outcomes
}
