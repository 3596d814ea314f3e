package importer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watcher turns files dropped into the uploaded directory into queued
// records, then moves each file to the parsed directory. It is the local
// stand-in for the original's bucket-event trigger.
type Watcher struct {
	svc  *Service
	proc *Processor
	log  *slog.Logger

	// settle is how long a file must sit before parsing, so writers get to
	// finish. fsnotify reports creation, not completion.
	settle time.Duration
}

func NewWatcher(svc *Service, proc *Processor, log *slog.Logger) *Watcher {
	return &Watcher{svc: svc, proc: proc, log: log, settle: 200 * time.Millisecond}
}

func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer fw.Close()

	if err := fw.Add(w.svc.UploadedDir()); err != nil {
		return errors.Wrap(err, "watch upload dir")
	}

	// Catch files that arrived before the watch was set up.
	if err := w.sweep(ctx); err != nil {
		return err
	}

	w.log.Info("watching for uploads", "dir", w.svc.UploadedDir())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".csv") {
				continue
			}
			time.Sleep(w.settle)
			w.processFile(ctx, ev.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "err", err)
		}
	}
}

func (w *Watcher) sweep(ctx context.Context) error {
	entries, err := os.ReadDir(w.svc.UploadedDir())
	if err != nil {
		return errors.Wrap(err, "read upload dir")
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		w.processFile(ctx, filepath.Join(w.svc.UploadedDir(), e.Name()))
	}
	return nil
}

// processFile parses and enqueues one CSV. Per-file failures are logged and
// the watcher keeps going, matching the original per-object error handling.
func (w *Watcher) processFile(ctx context.Context, path string) {
	recs, err := ParseFile(path)
	if err != nil {
		w.log.Error("parse failed", "file", path, "err", err)
		return
	}

	if err := w.proc.Enqueue(ctx, recs...); err != nil {
		w.log.Error("enqueue failed", "file", path, "err", err)
		return
	}

	if err := os.Rename(path, w.svc.ParsedPath(path)); err != nil {
		w.log.Error("move to parsed failed", "file", path, "err", err)
		return
	}

	w.log.Info("file imported", "file", path, "rows", len(recs))
}
