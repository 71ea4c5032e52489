package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/topcoder-platform/topcoder-cli/internal/archive"
	"github.com/topcoder-platform/topcoder-cli/internal/credentials"
	"github.com/topcoder-platform/topcoder-cli/internal/runner"
	"github.com/topcoder-platform/topcoder-cli/ui"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the contents of current working directory to Topcoder challenge(s)",
	Long: `Submit the contents of the current working directory to one or more
Topcoder challenges.

Every file under the directory is packed into a zip, except .topcoderrc
and node_modules, and uploaded once per challenge.

Either use CLI parameters or create a file .topcoderrc in JSON format:
  {
    "challengeIds": [
      "30095545" // at least one item here
    ],
    "username": "<Topcoder username>",
    "password": "<Topcoder password>"
  }

Examples:
  topcoder submit
  topcoder submit -u alice -p secret -c 30095545,30095546

  # Admin submitting for another member with m2m credentials in .topcoderrc:
  topcoder submit -m 8547899 -c 30095545`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		params, err := resolveParams(e, cmd.Flags(), credentials.SubmitSchema)
		if err != nil {
			return err
		}

		api, err := login(ctx, e, params)
		if err != nil {
			return err
		}

		memberID := params.MemberID
		if memberID == 0 {
			memberID, err = api.LookupMemberID(ctx, params.Username)
			if err != nil {
				return fmt.Errorf("failed to look up member id of %s: %w", params.Username, err)
			}
		}

		e.logger.Info("Packaging submission...")
		arch, err := archive.NewBuilder().Build(e.dir)
		if err != nil {
			return err
		}
		e.logger.Debug("submission packaged",
			"files", len(arch.Entries),
			"size", humanize.Bytes(uint64(arch.Size())),
			"blake3", arch.Digest)

		name := fmt.Sprintf("%d.zip", memberID)
		outcomes := runner.Submit(ctx, api, e.logger, name, arch.Data, memberID, params.ChallengeIDs)

		summary := ui.SubmitSummary(outcomes)
		if summary == "" {
			e.logger.Info("Uploaded submissions:\nNo submissions uploaded.")
		} else {
			e.logger.Info("Uploaded submissions:\n" + summary)
		}
		if err := ui.AppendSubmitLog(filepath.Join(e.dir, ui.SubmitLogName), time.Now(), summary); err != nil {
			return err
		}

		ui.PrintSubmitResults(cmd.OutOrStdout(), outcomes)
		e.logger.Info("Completed!")
		return nil
	},
}

func init() {
	flags := submitCmd.Flags()
	addAuthFlags(flags)
	flags.StringP(flagMemberID, "m", "", "Admin submitting on behalf of other member will use the member id")
	flags.StringP(flagChallengeIDs, "c", "", "Comma separated challenge IDs to which submission need to be done")
	rootCmd.AddCommand(submitCmd)
}
