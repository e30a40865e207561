package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/r9s-ai/reportingcloud/pkg/validator"
)

type templateUploader interface {
	UploadTemplate(ctx context.Context, templateFilename string) (bool, error)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

type syncOptions struct {
	watch      bool
	debounceMs int
}

func newTemplatesSyncCmd(root *rootOptions) *cobra.Command {
	var opts syncOptions
	cmd := &cobra.Command{
		Use:   "sync <dir>",
		Short: "Upload every template file in a directory",
		Long: "Upload every template file (DOC, DOCX, RTF, TX) found directly in <dir>.\n" +
			"With --watch, keep running and re-upload files as they are created or written.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.run(cmd, func(ctx context.Context, s *session) error {
				return runSync(ctx, s, args[0], opts)
			})
		},
	}
	fs := cmd.Flags()
	fs.BoolVar(&opts.watch, "watch", false, "watch the directory and re-upload on change")
	fs.IntVar(&opts.debounceMs, "debounce-ms", 0, "quiet period before uploading changed files (overrides sync.debounce_ms)")
	return cmd
}

func runSync(ctx context.Context, s *session, dir string, opts syncOptions) error {
	uploaded, err := syncDir(ctx, s.client, dir)
	if err != nil {
		return err
	}
	if err := s.print.list("uploaded", uploaded); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	debounceMs := opts.debounceMs
	if debounceMs <= 0 {
		debounceMs = s.cfg.Sync.DebounceMs
	}
	w, err := watchTemplates(ctx, s.client, dir, time.Duration(debounceMs)*time.Millisecond, s.logger)
	if err != nil {
		return err
	}
	<-ctx.Done()
	return w.Close()
}

// syncDir uploads every template file directly inside dir and returns the
// uploaded file names. It keeps going after a failed upload and reports all
// failures together.
func syncDir(ctx context.Context, up templateUploader, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sync dir: %w", err)
	}
	var (
		uploaded []string
		errs     []error
	)
	for _, e := range entries {
		if !e.Type().IsRegular() || !isTemplateFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if _, err := up.UploadTemplate(ctx, path); err != nil {
			errs = append(errs, fmt.Errorf("upload %s: %w", e.Name(), err))
			continue
		}
		uploaded = append(uploaded, e.Name())
	}
	return uploaded, errors.Join(errs...)
}

func isTemplateFile(name string) bool {
	base := filepath.Base(name)
	if base == "" || strings.HasPrefix(base, ".") {
		return false
	}
	return validator.FileExtension{Allowed: validator.TemplateFormats}.Check(base) == nil
}

func shouldSyncEvent(evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}
	return isTemplateFile(evt.Name)
}

// watchTemplates re-uploads template files in dir after they are created or
// written. Events for the same file within debounce collapse into one upload.
func watchTemplates(ctx context.Context, up templateUploader, dir string, debounce time.Duration, logger *slog.Logger) (io.Closer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		var (
			timer   *time.Timer
			timerC  <-chan time.Time
			pending = map[string]struct{}{}
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			timerC = timer.C
		}
		flush := func() {
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			for _, p := range paths {
				if fi, err := os.Stat(p); err != nil || !fi.Mode().IsRegular() {
					continue
				}
				if _, err := up.UploadTemplate(ctx, p); err != nil {
					logger.Error("template sync failed", "file", p, "err", err)
					continue
				}
				logger.Info("template synced", "file", p)
			}
		}

		for {
			select {
			case <-stopCh:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
				timerC = nil
				flush()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("template watcher error", "err", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if shouldSyncEvent(evt) {
					pending[evt.Name] = struct{}{}
					resetTimer()
				}
			}
		}
	}()

	logger.Info("template sync watching", "dir", dir, "debounce", debounce)
	return closerFunc(func() error {
		close(stopCh)
		err := watcher.Close()
		<-doneCh
		return err
	}), nil
}
