package intake

// SwitchTab makes id the only active pane and control. It reports false, and
// leaves every pane inactive, when id names no tab.
func (c *Controller) SwitchTab(id TabID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.switchTab(id)
}

func (c *Controller) switchTab(id TabID) bool {
	for _, tab := range c.el.Tabs {
		tab.Pane.SetActive(false)
		tab.Control.SetActive(false)
	}

	tab, ok := c.el.Tabs[id]
	if !ok {
		c.logger.Warn("unknown tab", "tab", string(id))
		return false
	}
	tab.Pane.SetActive(true)
	tab.Control.SetActive(true)
	return true
}
