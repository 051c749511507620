package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/minutes-flow/internal/export"
	"github.com/nguyentantai21042004/minutes-flow/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the input directory and process new transcripts",
	Long:  `Watch paths.input for new transcript files (.txt, .md, .srt), run each through the pipeline, write the minutes to paths.output and move the processed transcript to paths.archived.`,
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}

	for _, dir := range []string{a.cfg.Paths.Input, a.cfg.Paths.Output, a.cfg.Paths.Archived} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	w, err := watcher.New(a.cfg.Paths.Input, a.transcriptHandler(), a.logger, a.cfg.Performance.MaxConcurrent)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// transcriptHandler runs one watched file through the pipeline, exports the
// minutes and archives the transcript.
func (a *app) transcriptHandler() watcher.EventHandler {
	return func(ctx context.Context, filePath string) error {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("read transcript: %w", err)
		}

		base := filepath.Base(filePath)
		stem := strings.TrimSuffix(base, filepath.Ext(base))

		state, runErr := a.orchestrator.Run(ctx, string(data))
		if len(state.StageLog) > 0 {
			if _, werr := export.WriteAll(state, a.cfg.Paths.Output, stem); werr != nil {
				return fmt.Errorf("export: %w", werr)
			}
		}
		if runErr != nil {
			return runErr
		}

		archived := filepath.Join(a.cfg.Paths.Archived, base)
		if err := os.Rename(filePath, archived); err != nil {
			return fmt.Errorf("archive transcript: %w", err)
		}
		a.logger.Info(ctx, "Archived %s", base)
		return nil
	}
}
