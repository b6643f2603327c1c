package intake

import (
	"github.com/BerylCAtieno/medical-record-assistant/internal/locale"
	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
)

// Render writes a result into the result fields. Rendering the same result
// twice leaves the page exactly as rendering it once.
func (c *Controller) Render(r *models.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.render(r)
}

func (c *Controller) render(r *models.Result) {
	if r == nil {
		r = &models.Result{}
	}
	var s models.Suggestions
	if r.Suggestions != nil {
		s = *r.Suggestions
	}

	c.el.TextResult.SetText(c.or(r.Text, locale.NoText))
	c.el.Summary.SetText(c.or(s.Summary, locale.NoSummary))
	c.el.Analysis.SetText(c.or(s.Analysis, locale.NoAnalysis))

	c.el.Recommendations.Clear()
	if len(s.Recommendations) > 0 {
		for _, rec := range s.Recommendations {
			c.el.Recommendations.Append(rec)
		}
	} else {
		c.el.Recommendations.Append(c.text.Text(locale.NoRecommendations))
	}

	c.el.LifestyleAdvice.SetText(c.or(s.LifestyleAdvice, locale.NoLifestyleAdvice))
	c.el.Disclaimer.SetText(c.or(r.Disclaimer, locale.DefaultDisclaimer))
}

func (c *Controller) or(value string, fallback locale.Key) string {
	if value == "" {
		return c.text.Text(fallback)
	}
	return value
}
