package intake

import (
	"context"
	"fmt"

	"github.com/BerylCAtieno/medical-record-assistant/internal/locale"
)

type DragKind int

const (
	DragEnter DragKind = iota
	DragOver
	DragLeave
	DragDrop
)

func (k DragKind) String() string {
	switch k {
	case DragEnter:
		return "enter"
	case DragOver:
		return "over"
	case DragLeave:
		return "leave"
	case DragDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// DragEvent is one step of a drag over the drop zone. The controller consumes
// every such event so the host never applies its own default handling (for a
// browser, opening the file in place).
type DragEvent struct {
	Kind  DragKind
	Files []SelectedFile

	DefaultPrevented   bool
	PropagationStopped bool
}

// HandleDrag processes a drop zone event. Only the first dropped file is used.
func (c *Controller) HandleDrag(ev *DragEvent) error {
	ev.DefaultPrevented = true
	ev.PropagationStopped = true

	c.mu.Lock()
	switch ev.Kind {
	case DragEnter, DragOver:
		c.setArmed(true)
	case DragLeave, DragDrop:
		c.setArmed(false)
	}
	c.mu.Unlock()

	if ev.Kind != DragDrop || len(ev.Files) == 0 {
		return nil
	}
	return c.intake(ev.Files[0])
}

// HandleSelection processes a file picker change. Only the first file is used;
// an empty selection does nothing.
func (c *Controller) HandleSelection(files []SelectedFile) error {
	if len(files) == 0 {
		return nil
	}
	return c.intake(files[0])
}

func (c *Controller) setArmed(armed bool) {
	if c.armed == armed {
		return
	}
	c.armed = armed
	c.el.DropZone.SetActive(armed)
}

func (c *Controller) intake(f SelectedFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if !Accepts(f.MediaType()) {
		c.logger.Warn("rejected file", "file", f.Name(), "media_type", f.MediaType())
		c.el.Notifier.Notify(c.text.Text(locale.InvalidImage))
		return fmt.Errorf("%w: %q", ErrUnsupportedMediaType, f.MediaType())
	}

	if !c.phase.AcceptsIntake() {
		c.logger.Info("superseding in-flight upload", "file", f.Name())
	}
	if c.cancelUpload != nil {
		c.cancelUpload()
	}
	c.token++
	tok := c.token
	uploadCtx, cancel := context.WithCancel(c.ctx)
	c.cancelUpload = cancel

	c.setPhase(PhasePreviewing)
	c.setPhase(PhaseUploading)
	c.setStatus(locale.StatusUploading)

	c.logger.Info("file accepted", "file", f.Name(), "media_type", f.MediaType())

	c.spawn(func() { c.preview(tok, f) })
	c.spawn(func() { c.upload(uploadCtx, tok, f) })

	return nil
}
