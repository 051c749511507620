package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

// settleDelay gives editors and copy tools time to finish writing a file
// before the pipeline reads it.
const settleDelay = 500 * time.Millisecond

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup
}

// Start begins watching the input directory until ctx is cancelled.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Watching %s for new transcripts (max %d concurrent)", w.inputDir, w.maxConcurrent)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Watcher stopping: %v", ctx.Err())
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return nil
			}
			if !w.shouldHandle(event) {
				continue
			}
			w.dispatch(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return nil
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the underlying fsnotify watcher and waits for in-flight work.
func (w *implWatcher) Stop() error {
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *implWatcher) shouldHandle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return isTranscriptFile(event.Name)
}

func (w *implWatcher) dispatch(ctx context.Context, filePath string) {
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()

		time.Sleep(settleDelay)

		w.logger.Info(ctx, "Processing new transcript: %s", filepath.Base(filePath))
		if err := w.handler(ctx, filePath); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %s", filepath.Base(filePath), logger.FormatError(err))
			return
		}
		w.logger.Info(ctx, "Finished processing %s", filepath.Base(filePath))
	}()
}

func isTranscriptFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".srt":
		return true
	default:
		return false
	}
}
