// Package intake drives the record intake page: it validates a dropped or
// picked image, previews it, uploads it for analysis and renders the result
// into tabbed panes. The page itself is injected as Elements.
package intake

import (
	"context"
	"sync"
	"time"

	"github.com/BerylCAtieno/medical-record-assistant/internal/client"
	"github.com/BerylCAtieno/medical-record-assistant/internal/locale"
	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

const DefaultRevealDelay = time.Second

// API is the slice of the backend the controller depends on.
type API interface {
	Upload(ctx context.Context, f client.File) (*models.UploadResult, error)
	GetMode(ctx context.Context) (*models.ModeResponse, error)
	SetMode(ctx context.Context, mode models.ProcessingMode) (*models.ModeResponse, error)
}

type Controller struct {
	el          Elements
	api         API
	text        *locale.Printer
	logger      *utils.Logger
	revealDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	// mu serialises every mutation of el, the way a page's event loop would.
	mu           sync.Mutex
	idle         *sync.Cond
	pending      int
	phase        Phase
	armed        bool
	closed       bool
	token        uint64
	cancelUpload context.CancelFunc
}

type Option func(*Controller)

func WithLogger(logger *utils.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithPrinter(p *locale.Printer) Option {
	return func(c *Controller) {
		if p != nil {
			c.text = p
		}
	}
}

// WithRevealDelay sets how long the finalizing status stays on screen before
// the results replace it.
func WithRevealDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.revealDelay = d
		}
	}
}

func New(el Elements, api API, opts ...Option) (*Controller, error) {
	if err := el.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		el:          el,
		api:         api,
		text:        locale.New("en"),
		logger:      utils.NewNopLogger(),
		revealDelay: DefaultRevealDelay,
		ctx:         ctx,
		cancel:      cancel,
	}
	c.idle = sync.NewCond(&c.mu)
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Mount renders the initial page state and asks the server for its current
// processing mode.
func (c *Controller) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.armed = false
	c.el.DropZone.SetActive(false)
	c.setPhase(PhaseIdle)

	c.spawn(c.loadMode)
}

// Close cancels outstanding work and waits for it to return.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	c.mu.Unlock()

	c.Wait()
}

// Wait blocks until every preview, upload and mode request started so far
// has finished.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pending > 0 {
		c.idle.Wait()
	}
}

// spawn must be called with mu held.
func (c *Controller) spawn(fn func()) {
	c.pending++
	go fn()
}

// done marks one spawned task finished. It takes mu, so tasks must release
// it first.
func (c *Controller) done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--
	if c.pending == 0 {
		c.idle.Broadcast()
	}
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// setPhase must be called with mu held.
func (c *Controller) setPhase(p Phase) {
	v := p.layout()
	c.el.PreviewSection.SetVisible(v.preview)
	c.el.ProcessingSection.SetVisible(v.processing)
	c.el.ResultsSection.SetVisible(v.results)

	if p != c.phase {
		c.logger.Debug("intake.phase", "from", c.phase.String(), "to", p.String())
	}
	c.phase = p
}

// setStatus must be called with mu held.
func (c *Controller) setStatus(key locale.Key) {
	c.el.ProcessingStatus.SetText(c.text.Text(key))
}
