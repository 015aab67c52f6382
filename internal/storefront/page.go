package storefront

import "sync"

// PageState is a rendered snapshot of a Page.
type PageState struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	LoadError    string   `json:"load_error,omitempty"`
	Cards        []Card   `json:"cards"`
	Detail       *Detail  `json:"detail,omitempty"`
	Video        *Embed   `json:"video,omitempty"`
	ScrollLocked bool     `json:"scroll_locked"`
	Scanning     bool     `json:"scanning"`
	Notices      []Notice `json:"notices,omitempty"`
}

// Page is the in-memory View. Notices and the grid entry animation are
// one-shot: Render hands them out once.
type Page struct {
	mu    sync.Mutex
	state PageState
}

func NewPage() *Page {
	return &Page{state: PageState{Cards: []Card{}}}
}

func (p *Page) SetHeader(title, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Title, p.state.Description = title, description
}

func (p *Page) ShowLoadError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.LoadError = message
	p.state.Cards = []Card{}
}

func (p *Page) RenderGrid(cards []Card) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.LoadError = ""
	p.state.Cards = append([]Card{}, cards...)
}

func (p *Page) ShowDetail(d Detail) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Detail = &d
}

func (p *Page) HideDetail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Detail = nil
}

func (p *Page) ShowVideoPlaceholder() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Video = nil
}

func (p *Page) EmbedVideo(e Embed) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Video = &e
}

func (p *Page) LockScroll(locked bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.ScrollLocked = locked
}

func (p *Page) ShowScanner(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Scanning = active
}

func (p *Page) Notify(n Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Notices = append(p.state.Notices, n)
}

// State returns a snapshot without consuming one-shot content.
func (p *Page) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Render returns a snapshot for display and consumes pending notices and
// the grid entry animation.
func (p *Page) Render() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.snapshot()
	p.state.Notices = nil
	for i := range p.state.Cards {
		p.state.Cards[i].Animate = false
	}
	return s
}

func (p *Page) snapshot() PageState {
	s := p.state
	s.Cards = append([]Card{}, p.state.Cards...)
	s.Notices = append([]Notice(nil), p.state.Notices...)
	if p.state.Detail != nil {
		d := *p.state.Detail
		s.Detail = &d
	}
	if p.state.Video != nil {
		e := *p.state.Video
		s.Video = &e
	}
	return s
}
