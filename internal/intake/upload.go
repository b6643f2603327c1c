package intake

import (
	"context"
	"errors"
	"time"

	"github.com/BerylCAtieno/medical-record-assistant/internal/client"
	"github.com/BerylCAtieno/medical-record-assistant/internal/locale"
	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
)

func (c *Controller) upload(ctx context.Context, tok uint64, f SelectedFile) {
	defer c.done()

	if !c.step(tok, func() { c.setStatus(locale.StatusExtracting) }) {
		return
	}

	res, err := c.api.Upload(ctx, f)
	if ctx.Err() != nil {
		c.logger.Debug("upload abandoned", "file", f.Name(), "error", ctx.Err())
		return
	}

	if msg, failed := c.failure(f, res, err); failed {
		c.fail(tok, msg)
		return
	}

	ok := c.step(tok, func() {
		c.setStatus(locale.StatusFinalizing)
		c.render(res.Result)
	})
	if !ok {
		return
	}

	if c.revealDelay > 0 {
		timer := time.NewTimer(c.revealDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	c.step(tok, func() {
		c.setPhase(PhaseShowingResults)
		c.switchTab(TabExtractedText)
		c.releaseUpload()
		c.logger.Info("analysis shown", "file", f.Name())
	})
}

// step runs fn under the lock unless the upload identified by tok has been
// superseded or the controller closed.
func (c *Controller) step(tok uint64, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok != c.token || c.closed {
		return false
	}
	fn()
	return true
}

// failure turns a transport error or an unsuccessful payload into the message
// shown to the user.
func (c *Controller) failure(f SelectedFile, res *models.UploadResult, err error) (string, bool) {
	if err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) {
			c.logger.Error("upload rejected by server", "file", f.Name(), "status", statusErr.StatusCode)
		} else {
			c.logger.Error("upload failed", "file", f.Name(), "error", err)
		}
		return c.text.Text(locale.ServerError), true
	}

	if res == nil || !res.Success {
		msg := c.text.Text(locale.ProcessingFailed)
		if res != nil && res.Error != "" {
			msg = res.Error
		}
		c.logger.Error("analysis failed", "file", f.Name(), "error", msg)
		return msg, true
	}

	return "", false
}

func (c *Controller) fail(tok uint64, msg string) {
	c.step(tok, func() {
		c.setPhase(PhaseFailed)
		c.releaseUpload()
		c.el.Notifier.Notify(c.text.Text(locale.UploadFailed, msg))
	})
}

// releaseUpload must be called with mu held.
func (c *Controller) releaseUpload() {
	if c.cancelUpload != nil {
		c.cancelUpload()
		c.cancelUpload = nil
	}
}
