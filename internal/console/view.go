// Package console renders the intake page on a terminal. Every handle the
// controller needs is backed by one View that writes plain lines to out.
package console

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/BerylCAtieno/medical-record-assistant/internal/intake"
)

type View struct {
	mu  sync.Mutex
	out io.Writer

	resultsVisible bool
	mode           string

	text            string
	summary         string
	analysis        string
	recommendations []string
	lifestyle       string
	disclaimer      string
}

func New(out io.Writer) *View {
	return &View{out: out, mode: "local"}
}

// Elements wires the view into a controller.
func (v *View) Elements() intake.Elements {
	return intake.Elements{
		DropZone:          toggleFunc(v.dropZone),
		PreviewSection:    regionFunc(func(bool) {}),
		PreviewImage:      &preview{v: v},
		ProcessingSection: regionFunc(func(bool) {}),
		ProcessingStatus:  fieldFunc(v.status),
		ResultsSection:    regionFunc(v.showResults),
		TextResult:        fieldFunc(func(s string) { v.set(&v.text, s) }),
		Summary:           fieldFunc(func(s string) { v.set(&v.summary, s) }),
		Analysis:          fieldFunc(func(s string) { v.set(&v.analysis, s) }),
		Recommendations:   &recommendations{v: v},
		LifestyleAdvice:   fieldFunc(func(s string) { v.set(&v.lifestyle, s) }),
		Disclaimer:        fieldFunc(func(s string) { v.set(&v.disclaimer, s) }),
		ModeControl:       &modeSelect{v: v},
		Tabs: map[intake.TabID]intake.Tab{
			intake.TabExtractedText: v.tab(intake.TabExtractedText),
			intake.TabSuggestions:   v.tab(intake.TabSuggestions),
			intake.TabDisclaimer:    v.tab(intake.TabDisclaimer),
		},
		Notifier: notifierFunc(v.notify),
	}
}

// ChooseMode changes the mode control the way a user would. The caller is
// expected to tell the controller afterwards.
func (v *View) ChooseMode(mode string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mode = mode
}

func (v *View) Mode() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// Prompt prints the command prompt.
func (v *View) Prompt() {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprint(v.out, "> ")
}

func (v *View) Println(a ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, a...)
}

func (v *View) set(dst *string, s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	*dst = s
}

func (v *View) dropZone(active bool) {
	if !active {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, "» file incoming")
}

func (v *View) status(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "… %s\n", s)
}

func (v *View) showResults(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resultsVisible = visible
}

func (v *View) notify(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "!! %s\n", msg)
}

func (v *View) tab(id intake.TabID) intake.Tab {
	return intake.Tab{
		Pane: toggleFunc(func(active bool) {
			if active {
				v.showPane(id)
			}
		}),
		Control: toggleFunc(func(bool) {}),
	}
}

func (v *View) showPane(id intake.TabID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.resultsVisible {
		return
	}

	fmt.Fprintf(v.out, "── %s ──\n", id)
	switch id {
	case intake.TabExtractedText:
		fmt.Fprintln(v.out, v.text)
	case intake.TabSuggestions:
		fmt.Fprintln(v.out, v.summary)
		fmt.Fprintln(v.out)
		fmt.Fprintln(v.out, v.analysis)
		fmt.Fprintln(v.out)
		for _, r := range v.recommendations {
			fmt.Fprintf(v.out, "  • %s\n", r)
		}
		fmt.Fprintln(v.out)
		fmt.Fprintln(v.out, v.lifestyle)
	case intake.TabDisclaimer:
		fmt.Fprintln(v.out, v.disclaimer)
	}
}

type preview struct{ v *View }

func (p *preview) SetSource(dataURI string) {
	p.v.mu.Lock()
	defer p.v.mu.Unlock()
	fmt.Fprintf(p.v.out, "preview: %s\n", describeDataURI(dataURI))
}

func (p *preview) SetVisible(bool) {}

// describeDataURI reports the media type and decoded size of a base64 data URI.
func describeDataURI(uri string) string {
	meta, data, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return "unreadable image"
	}
	mediaType := strings.TrimSuffix(meta, ";base64")
	return fmt.Sprintf("%s, %s", mediaType, humanSize(base64.StdEncoding.DecodedLen(len(data))-padding(data)))
}

func padding(data string) int {
	return len(data) - len(strings.TrimRight(data, "="))
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

type recommendations struct{ v *View }

func (r *recommendations) Clear() {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.recommendations = nil
}

func (r *recommendations) Append(item string) {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.recommendations = append(r.v.recommendations, item)
}

type modeSelect struct{ v *View }

func (m *modeSelect) Value() string { return m.v.Mode() }

func (m *modeSelect) SetValue(value string) {
	m.v.mu.Lock()
	defer m.v.mu.Unlock()
	if m.v.mode == value {
		return
	}
	m.v.mode = value
	fmt.Fprintf(m.v.out, "mode: %s\n", value)
}

type toggleFunc func(bool)

func (f toggleFunc) SetActive(active bool) { f(active) }

type regionFunc func(bool)

func (f regionFunc) SetVisible(visible bool) { f(visible) }

type fieldFunc func(string)

func (f fieldFunc) SetText(text string) { f(text) }

type notifierFunc func(string)

func (f notifierFunc) Notify(message string) { f(message) }
