package cmd

import (
	"github.com/spf13/cobra"

	"github.com/topcoder-platform/topcoder-cli/internal/credentials"
	"github.com/topcoder-platform/topcoder-cli/internal/runner"
	"github.com/topcoder-platform/topcoder-cli/ui"
)

var fetchArtifactsCmd = &cobra.Command{
	Use:   "fetch-artifacts",
	Short: "Download the artifacts of a submission",
	Long: `Download every artifact of a submission into
submission-<submissionId>-artifacts/ under the current directory.

The submission is named either by its id or by its legacy id.

Examples:
  topcoder fetch-artifacts -s a0e8f1d2-5d47-4a2e-9b1e-3c0b0c1d2e3f
  topcoder fetch-artifacts -L 205384`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		params, err := resolveParams(e, cmd.Flags(), credentials.FetchArtifactsSchema)
		if err != nil {
			return err
		}

		api, err := login(ctx, e, params)
		if err != nil {
			return err
		}

		outcomes, err := runner.FetchArtifacts(ctx, api, e.logger, runner.FetchArtifactsRequest{
			Dir:                e.dir,
			SubmissionID:       params.SubmissionID,
			LegacySubmissionID: params.LegacySubmissionID,
		})
		if err != nil {
			return err
		}

		ui.PrintDownloadResults(cmd.OutOrStdout(), "Artifact", outcomes)
		e.logger.Info("All Done!")
		return nil
	},
}

func init() {
	flags := fetchArtifactsCmd.Flags()
	addAuthFlags(flags)
	flags.StringP(flagSubmissionID, "s", "", "Submission ID to fetch artifacts of")
	flags.StringP(flagLegacySubmissionID, "L", "", "Legacy submission ID to fetch artifacts of")
	rootCmd.AddCommand(fetchArtifactsCmd)
}
