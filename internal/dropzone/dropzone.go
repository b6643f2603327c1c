// Package dropzone turns a watched directory into a drop target. Copying a
// file into the directory plays the drag lifecycle a browser would deliver:
// enter when it appears, over while it is being written, drop once writes
// settle, leave if it disappears first.
package dropzone

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BerylCAtieno/medical-record-assistant/internal/intake"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

const DefaultSettle = 500 * time.Millisecond

// Target receives drag events. *intake.Controller satisfies it.
type Target interface {
	HandleDrag(ev *intake.DragEvent) error
}

type Zone struct {
	dir    string
	target Target
	settle time.Duration
	logger *utils.Logger
}

type Option func(*Zone)

// WithSettle sets how long a file must go without writes before it is dropped.
func WithSettle(d time.Duration) Option {
	return func(z *Zone) {
		if d > 0 {
			z.settle = d
		}
	}
}

func WithLogger(logger *utils.Logger) Option {
	return func(z *Zone) {
		if logger != nil {
			z.logger = logger
		}
	}
}

func New(dir string, target Target, opts ...Option) *Zone {
	z := &Zone{
		dir:    dir,
		target: target,
		settle: DefaultSettle,
		logger: utils.NewNopLogger(),
	}
	for _, o := range opts {
		o(z)
	}
	return z
}

// Translate maps a filesystem event to the drag step it stands for. Drops are
// never translated directly; they come from the settle timer.
func Translate(op fsnotify.Op) (intake.DragKind, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return intake.DragLeave, true
	case op.Has(fsnotify.Create):
		return intake.DragEnter, true
	case op.Has(fsnotify.Write):
		return intake.DragOver, true
	default:
		return 0, false
	}
}

func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") || strings.HasSuffix(base, ".tmp")
}

// Run watches the directory until ctx is cancelled.
func (z *Zone) Run(ctx context.Context) error {
	info, err := os.Stat(z.dir)
	if err != nil {
		return fmt.Errorf("drop directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("drop directory: %s is not a directory", z.dir)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(z.dir); err != nil {
		return fmt.Errorf("watch %s: %w", z.dir, err)
	}
	z.logger.Info("watching drop directory", "dir", z.dir, "settle", z.settle)

	tr := newTracker(z.settle)
	defer tr.close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignored(e.Name) {
				continue
			}
			kind, ok := Translate(e.Op)
			if !ok {
				continue
			}

			switch kind {
			case intake.DragLeave:
				if !tr.tracked(e.Name) {
					continue
				}
				tr.forget(e.Name)
			case intake.DragEnter, intake.DragOver:
				if tr.tracked(e.Name) && kind == intake.DragEnter {
					kind = intake.DragOver
				}
				tr.arm(e.Name)
			}
			z.deliver(&intake.DragEvent{Kind: kind})

		case s := <-tr.settled:
			if !tr.current(s) {
				continue
			}
			z.drop(s.path)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				z.logger.Warn("drop directory events overflowed", "dir", z.dir)
				continue
			}
			return fmt.Errorf("watch %s: %w", z.dir, err)
		}
	}
}

func (z *Zone) drop(path string) {
	f, err := intake.OpenFile(path)
	if err != nil {
		z.logger.Warn("dropped file vanished", "path", path, "error", err)
		z.deliver(&intake.DragEvent{Kind: intake.DragLeave})
		return
	}
	z.deliver(&intake.DragEvent{Kind: intake.DragDrop, Files: []intake.SelectedFile{f}})
}

func (z *Zone) deliver(ev *intake.DragEvent) {
	if err := z.target.HandleDrag(ev); err != nil {
		z.logger.Debug("drop rejected", "kind", ev.Kind.String(), "error", err)
	}
}

type settledFile struct {
	path string
	gen  uint64
}

// tracker owns the settle timers of files in the drop directory. Every arm
// gets a fresh generation, so a timer that fired just before the file was
// written again cannot drop it.
type tracker struct {
	settle  time.Duration
	settled chan settledFile
	stop    chan struct{}

	seq    uint64
	gens   map[string]uint64
	timers map[string]*time.Timer
}

func newTracker(settle time.Duration) *tracker {
	return &tracker{
		settle:  settle,
		settled: make(chan settledFile),
		stop:    make(chan struct{}),
		gens:    map[string]uint64{},
		timers:  map[string]*time.Timer{},
	}
}

func (t *tracker) tracked(path string) bool {
	_, ok := t.gens[path]
	return ok
}

func (t *tracker) arm(path string) {
	if old, ok := t.timers[path]; ok {
		old.Stop()
	}
	t.seq++
	s := settledFile{path: path, gen: t.seq}
	t.gens[path] = s.gen
	t.timers[path] = time.AfterFunc(t.settle, func() {
		select {
		case t.settled <- s:
		case <-t.stop:
		}
	})
}

func (t *tracker) forget(path string) {
	if timer, ok := t.timers[path]; ok {
		timer.Stop()
	}
	delete(t.timers, path)
	delete(t.gens, path)
}

// current reports whether s is the latest settle of its file and, if so,
// stops tracking the file.
func (t *tracker) current(s settledFile) bool {
	if gen, ok := t.gens[s.path]; !ok || gen != s.gen {
		return false
	}
	delete(t.timers, s.path)
	delete(t.gens, s.path)
	return true
}

func (t *tracker) close() {
	close(t.stop)
	for _, timer := range t.timers {
		timer.Stop()
	}
}
