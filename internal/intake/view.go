package intake

import (
	"fmt"
	"strings"
)

// The controller never looks anything up on its own: every region and control
// it mutates is handed to New through Elements.

// Region is a section of the page that can be shown or hidden.
type Region interface {
	SetVisible(visible bool)
}

// Toggle is an element carrying an on/off visual state: the armed drop zone,
// an active tab pane, an active tab button.
type Toggle interface {
	SetActive(active bool)
}

type TextField interface {
	SetText(text string)
}

type List interface {
	Clear()
	Append(item string)
}

type Image interface {
	SetSource(dataURI string)
	SetVisible(visible bool)
}

// Select is the processing mode control.
type Select interface {
	Value() string
	SetValue(value string)
}

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Notify(message string)
}

type TabID string

const (
	TabExtractedText TabID = "extracted-text"
	TabSuggestions   TabID = "suggestions"
	TabDisclaimer    TabID = "disclaimer"
)

// Tab pairs a result pane with the control that selects it.
type Tab struct {
	Pane    Toggle
	Control Toggle
}

type Elements struct {
	DropZone Toggle

	PreviewSection Region
	PreviewImage   Image

	ProcessingSection Region
	ProcessingStatus  TextField

	ResultsSection  Region
	TextResult      TextField
	Summary         TextField
	Analysis        TextField
	Recommendations List
	LifestyleAdvice TextField
	Disclaimer      TextField

	ModeControl Select
	Tabs        map[TabID]Tab

	Notifier Notifier
}

func (e Elements) validate() error {
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}

	check("DropZone", e.DropZone != nil)
	check("PreviewSection", e.PreviewSection != nil)
	check("PreviewImage", e.PreviewImage != nil)
	check("ProcessingSection", e.ProcessingSection != nil)
	check("ProcessingStatus", e.ProcessingStatus != nil)
	check("ResultsSection", e.ResultsSection != nil)
	check("TextResult", e.TextResult != nil)
	check("Summary", e.Summary != nil)
	check("Analysis", e.Analysis != nil)
	check("Recommendations", e.Recommendations != nil)
	check("LifestyleAdvice", e.LifestyleAdvice != nil)
	check("Disclaimer", e.Disclaimer != nil)
	check("ModeControl", e.ModeControl != nil)
	check("Notifier", e.Notifier != nil)
	for id, tab := range e.Tabs {
		check("Tabs["+string(id)+"].Pane", tab.Pane != nil)
		check("Tabs["+string(id)+"].Control", tab.Control != nil)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing elements: %s", strings.Join(missing, ", "))
	}
	return nil
}
