package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/minutes-flow/internal/export"
	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
	"github.com/nguyentantai21042004/minutes-flow/internal/orchestrator"
)

var runOutputDir string

var runCmd = &cobra.Command{
	Use:   "run [transcript-file]",
	Short: "Process a single transcript into meeting minutes",
	Long:  `Run the full pipeline on one transcript. Reads the given file, or stdin when no file (or "-") is given, and writes the minutes in every export format.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runOutputDir, "output", "o", "", "Output directory (defaults to paths.output from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}

	transcript, baseName, err := readTranscript(args)
	if err != nil {
		return err
	}

	outDir := runOutputDir
	if outDir == "" {
		outDir = a.cfg.Paths.Output
	}

	state, runErr := a.orchestrator.Run(ctx, transcript)

	// Export whatever the run produced. On a halt the partial state still
	// renders everything the completed stages extracted.
	if len(state.StageLog) > 0 {
		paths, werr := export.WriteAll(state, outDir, baseName)
		if werr != nil {
			return fmt.Errorf("export: %w", werr)
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
		}
	}

	if runErr != nil {
		var halted *orchestrator.HaltedError
		if errors.As(runErr, &halted) {
			done := completedStages(state)
			if done > 0 {
				fmt.Fprintf(cmd.OutOrStdout(),
					"Pipeline halted at %s; the output reflects the %d stage(s) that completed.\n",
					halted.Stage, done)
			}
		}
		return runErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Run %s completed in %s\n",
		state.RunID, state.CompletedAt.Sub(state.StartedAt).Round(time.Millisecond))
	return nil
}

func readTranscript(args []string) (transcript, baseName string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, rerr := io.ReadAll(os.Stdin)
		if rerr != nil {
			return "", "", fmt.Errorf("read stdin: %w", rerr)
		}
		return string(data), "minutes-" + time.Now().Format("20060102-150405"), nil
	}

	data, rerr := os.ReadFile(args[0])
	if rerr != nil {
		return "", "", fmt.Errorf("read transcript: %w", rerr)
	}
	base := filepath.Base(args[0])
	return string(data), strings.TrimSuffix(base, filepath.Ext(base)), nil
}

func completedStages(s *minutes.State) int {
	n := 0
	for _, r := range s.StageLog {
		if r.Status == minutes.StageSuccess || r.Status == minutes.StageDegraded {
			n++
		}
	}
	return n
}
