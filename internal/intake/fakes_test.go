package intake

import (
	"context"
	"sync"

	"github.com/BerylCAtieno/medical-record-assistant/internal/client"
	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
)

type toggle struct{ active bool }

func (t *toggle) SetActive(active bool) { t.active = active }

type region struct{ visible bool }

func (r *region) SetVisible(visible bool) { r.visible = visible }

type field struct{ text string }

func (f *field) SetText(text string) { f.text = text }

// statusField keeps every status shown and whether results were visible at
// the moment it was shown.
type statusField struct {
	field
	history     []string
	withResults []bool
	results     *region
}

func (f *statusField) SetText(text string) {
	f.field.SetText(text)
	f.history = append(f.history, text)
	f.withResults = append(f.withResults, f.results.visible)
}

type list struct{ items []string }

func (l *list) Clear()             { l.items = nil }
func (l *list) Append(item string) { l.items = append(l.items, item) }

type image struct {
	src     string
	visible bool
}

func (i *image) SetSource(dataURI string) { i.src = dataURI }
func (i *image) SetVisible(visible bool)  { i.visible = visible }

type selectBox struct{ value string }

func (s *selectBox) Value() string         { return s.value }
func (s *selectBox) SetValue(value string) { s.value = value }

type notices struct{ messages []string }

func (n *notices) Notify(message string) { n.messages = append(n.messages, message) }

type page struct {
	dropZone   toggle
	preview    region
	processing region
	results    region
	image      image
	status     statusField

	text       field
	summary    field
	analysis   field
	recs       list
	lifestyle  field
	disclaimer field

	mode     selectBox
	panes    map[TabID]*toggle
	controls map[TabID]*toggle
	notices  notices
}

func newPage() *page {
	p := &page{
		mode:     selectBox{value: "local"},
		panes:    map[TabID]*toggle{},
		controls: map[TabID]*toggle{},
	}
	p.status.results = &p.results
	for _, id := range []TabID{TabExtractedText, TabSuggestions, TabDisclaimer} {
		p.panes[id] = &toggle{}
		p.controls[id] = &toggle{}
	}
	return p
}

func (p *page) elements() Elements {
	tabs := make(map[TabID]Tab, len(p.panes))
	for id := range p.panes {
		tabs[id] = Tab{Pane: p.panes[id], Control: p.controls[id]}
	}
	return Elements{
		DropZone:          &p.dropZone,
		PreviewSection:    &p.preview,
		PreviewImage:      &p.image,
		ProcessingSection: &p.processing,
		ProcessingStatus:  &p.status,
		ResultsSection:    &p.results,
		TextResult:        &p.text,
		Summary:           &p.summary,
		Analysis:          &p.analysis,
		Recommendations:   &p.recs,
		LifestyleAdvice:   &p.lifestyle,
		Disclaimer:        &p.disclaimer,
		ModeControl:       &p.mode,
		Tabs:              tabs,
		Notifier:          &p.notices,
	}
}

func (p *page) activeTabs() []TabID {
	var active []TabID
	for _, id := range []TabID{TabExtractedText, TabSuggestions, TabDisclaimer} {
		if p.panes[id].active && p.controls[id].active {
			active = append(active, id)
		}
	}
	return active
}

type fakeAPI struct {
	mu       sync.Mutex
	uploaded []string
	modes    []models.ProcessingMode

	upload  func(ctx context.Context, f client.File) (*models.UploadResult, error)
	getMode func() (*models.ModeResponse, error)
	setMode func(mode models.ProcessingMode) (*models.ModeResponse, error)
}

func (a *fakeAPI) Upload(ctx context.Context, f client.File) (*models.UploadResult, error) {
	a.mu.Lock()
	a.uploaded = append(a.uploaded, f.Name())
	a.mu.Unlock()

	if a.upload == nil {
		return &models.UploadResult{Success: true, Result: &models.Result{}}, nil
	}
	return a.upload(ctx, f)
}

func (a *fakeAPI) GetMode(ctx context.Context) (*models.ModeResponse, error) {
	if a.getMode == nil {
		return &models.ModeResponse{Success: true, Mode: models.ModeLocal}, nil
	}
	return a.getMode()
}

func (a *fakeAPI) SetMode(ctx context.Context, mode models.ProcessingMode) (*models.ModeResponse, error) {
	a.mu.Lock()
	a.modes = append(a.modes, mode)
	a.mu.Unlock()

	if a.setMode == nil {
		return &models.ModeResponse{Success: true, Mode: mode}, nil
	}
	return a.setMode(mode)
}

func (a *fakeAPI) uploads() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.uploaded...)
}

func pngFile(name string) SelectedFile {
	return NewFile(name, "image/png", []byte("\x89PNG\r\n\x1a\n"))
}
