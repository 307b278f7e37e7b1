package bookshelf

import (
	"context"
	"sync"
)

// PanelState is what a details view shows in its similar books section.
type PanelState struct {
	BookID  string
	Loading bool
	Books   []SimilarBook
}

// SimilarPanel keeps at most one live run, the one of the book being
// shown. Showing another book or closing the panel cancels the
// previous run, and only the current run may change the state.
type SimilarPanel struct {
	ctx      context.Context
	engine   *Engine
	onChange func(PanelState)

	mu    sync.Mutex
	run   *Run
	state PanelState
}

// NewSimilarPanel provides a panel whose runs all end with ctx. onChange,
// if not nil, receives every applied state in order; it is called with
// the panel lock held and must not call back into the panel.
func NewSimilarPanel(ctx context.Context, engine *Engine, onChange func(PanelState)) *SimilarPanel {
	return &SimilarPanel{ctx: ctx, engine: engine, onChange: onChange}
}

// Show starts the discovery for book and supersedes the previous one.
func (p *SimilarPanel) Show(book Book) *Run {
	run := p.engine.Start(p.ctx, book)

	p.mu.Lock()
	prev := p.run
	p.run = run
	p.setState(PanelState{BookID: book.ID, Loading: true})
	p.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}
	run.Subscribe(func(o Outcome) { p.apply(run, o) })
	return run
}

// Close cancels the current run and resets the state.
func (p *SimilarPanel) Close() {
	p.mu.Lock()
	prev := p.run
	p.run = nil
	p.setState(PanelState{})
	p.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}
}

// State returns a copy of the visible state.
func (p *SimilarPanel) State() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Books = append([]SimilarBook(nil), s.Books...)
	return s
}

// Current returns the live run, nil after Close.
func (p *SimilarPanel) Current() *Run {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.run
}

func (p *SimilarPanel) apply(run *Run, o Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.run != run {
		return
	}
	p.setState(PanelState{BookID: p.state.BookID, Books: o.Books})
}

// setState must be called with the lock held.
func (p *SimilarPanel) setState(s PanelState) {
	p.state = s
	if p.onChange != nil {
		p.onChange(PanelState{BookID: s.BookID, Loading: s.Loading, Books: append([]SimilarBook(nil), s.Books...)})
	}
}
