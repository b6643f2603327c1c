package intake

import (
	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
)

func (c *Controller) loadMode() {
	defer c.done()

	resp, err := c.api.GetMode(c.ctx)
	if err != nil {
		c.logger.Debug("mode query failed", "error", err)
		return
	}
	if resp.Mode == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.el.ModeControl.SetValue(string(resp.Mode))
}

// HandleModeChange reacts to the user picking a new value on the mode control.
// The control already shows the new value; it is only touched again if the
// server refuses the change.
func (c *Controller) HandleModeChange() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	mode := models.ProcessingMode(c.el.ModeControl.Value())
	c.spawn(func() { c.changeMode(mode) })
}

func (c *Controller) changeMode(mode models.ProcessingMode) {
	defer c.done()

	resp, err := c.api.SetMode(c.ctx, mode)
	if err != nil {
		c.logger.Error("mode change request failed", "mode", mode, "error", err)
		return
	}
	if resp.Success {
		c.logger.Info("processing mode switched", "mode", mode)
		return
	}

	previous := resp.Mode
	if previous == "" {
		previous = models.DefaultMode
	}
	c.logger.Error("mode change rejected", "mode", mode, "error", resp.Error, "reverted_to", previous)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.el.ModeControl.SetValue(string(previous))
}
