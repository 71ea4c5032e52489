package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/topcoder-platform/topcoder-cli/client"
	"github.com/topcoder-platform/topcoder-cli/internal/runner"
)

// SubmitLogName is the file in the working directory that accumulates one
// block per submit run.
const SubmitLogName = "topcoder-cli.log"

var (
	green = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	red   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	gray  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// SubmitSummary groups the uploaded submission ids by challenge, one
// "challenge_<id>:\t<ids>" line per challenge in order of first upload.
// It is empty when nothing was uploaded.
func SubmitSummary(outcomes []runner.Outcome[*client.Submission]) string {
	var order []string
	byChallenge := make(map[string][]string)
	for _, s := range runner.Succeeded(outcomes) {
		if s == nil || s.ID == "" || s.ChallengeID == "" {
			continue
		}
		challengeID := s.ChallengeID.String()
		if _, seen := byChallenge[challengeID]; !seen {
			order = append(order, challengeID)
		}
		byChallenge[challengeID] = append(byChallenge[challengeID], s.ID.String())
	}

	lines := make([]string, 0, len(order))
	for _, challengeID := range order {
		lines = append(lines, fmt.Sprintf("challenge_%s:\t%s", challengeID, strings.Join(byChallenge[challengeID], ",")))
	}
	return strings.Join(lines, "\n")
}

// AppendSubmitLog appends "<unix millis>:\n<summary>\n\n" to the file at path.
func AppendSubmitLog(path string, now time.Time, summary string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	_, err = fmt.Fprintf(f, "%d:\n%s\n\n", now.UnixMilli(), summary)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// PrintSubmitResults prints one line per challenge and a closing count.
func PrintSubmitResults(w io.Writer, outcomes []runner.Outcome[*client.Submission]) {
	fmt.Fprintln(w)
	for _, o := range outcomes {
		if o.OK() {
			fmt.Fprintf(w, "  %s Challenge %s %s\n", green.Render("✓"), o.Item,
				gray.Render("submission "+o.Value.ID.String()))
			continue
		}
		fmt.Fprintf(w, "  %s Challenge %s %s\n", red.Render("✗"), o.Item, gray.Render(o.Err.Error()))
	}
	printTotals(w, "uploaded", len(outcomes), len(runner.Failed(outcomes)))
}

// PrintDownloadResults prints one line per downloaded item. kind is
// "Submission" or "Artifact".
func PrintDownloadResults(w io.Writer, kind string, outcomes []runner.Outcome[string]) {
	if len(outcomes) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, o := range outcomes {
		if o.OK() {
			fmt.Fprintf(w, "  %s %s %s %s\n", green.Render("✓"), kind, o.Item, gray.Render(o.Value))
			continue
		}
		fmt.Fprintf(w, "  %s %s %s %s\n", red.Render("✗"), kind, o.Item, gray.Render(o.Err.Error()))
	}
	printTotals(w, "downloaded", len(outcomes), len(runner.Failed(outcomes)))
}

func printTotals(w io.Writer, verb string, total, failed int) {
	fmt.Fprintln(w)
	if failed == 0 {
		fmt.Fprintln(w, green.Render(fmt.Sprintf("✓ %d/%d %s", total, total, verb)))
		return
	}
	fmt.Fprintln(w, red.Render(fmt.Sprintf("✗ %d/%d %s", total-failed, total, verb)))
}
