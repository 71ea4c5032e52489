package cmd

import (
	"github.com/spf13/cobra"

	"github.com/topcoder-platform/topcoder-cli/internal/credentials"
	"github.com/topcoder-platform/topcoder-cli/internal/runner"
	"github.com/topcoder-platform/topcoder-cli/ui"
)

var fetchSubmissionsCmd = &cobra.Command{
	Use:   "fetch-submissions",
	Short: "Download submissions of a challenge",
	Long: `Download the submissions of a challenge into <challengeId>-submissions/
under the current directory.

Without --submissionId every submission of the challenge is downloaded,
optionally only those of one member (--memberId) or only the most recent
one per member (--latest).

Examples:
  topcoder fetch-submissions -c 30095545
  topcoder fetch-submissions -c 30095545 --latest
  topcoder fetch-submissions -c 30095545 -m 8547899
  topcoder fetch-submissions -c 30095545 -s a0e8f1d2-5d47-4a2e-9b1e-3c0b0c1d2e3f`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		params, err := resolveParams(e, cmd.Flags(), credentials.FetchSubmissionsSchema)
		if err != nil {
			return err
		}

		api, err := login(ctx, e, params)
		if err != nil {
			return err
		}

		outcomes, err := runner.FetchSubmissions(ctx, api, e.logger, runner.FetchSubmissionsRequest{
			Dir:          e.dir,
			ChallengeID:  params.ChallengeID,
			MemberID:     params.MemberID,
			SubmissionID: params.SubmissionID,
			Latest:       params.Latest,
		})
		if err != nil {
			return err
		}

		ui.PrintDownloadResults(cmd.OutOrStdout(), "Submission", outcomes)
		e.logger.Info("All Done!")
		return nil
	},
}

func init() {
	flags := fetchSubmissionsCmd.Flags()
	addAuthFlags(flags)
	flags.StringP(flagChallengeID, "c", "", "Challenge ID to fetch submissions of")
	flags.StringP(flagMemberID, "m", "", "Only fetch submissions of this member")
	flags.StringP(flagSubmissionID, "s", "", "Fetch only this submission")
	flags.BoolP(flagLatest, "l", false, "Only fetch the latest submission of each member")
	rootCmd.AddCommand(fetchSubmissionsCmd)
}
