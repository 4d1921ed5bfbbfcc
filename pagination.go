package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ParityMode selects how the adjust-parity intent behaves
type ParityMode string

const (
	// ParityModeToggle flips the EVEN/ODD pairing and keeps the current page
	ParityModeToggle ParityMode = "toggle"
	// ParityModeShift moves the current page by one so pairs start one page later or earlier
	ParityModeShift ParityMode = "shift"
)

// fastForwardStride is how many pages a fast-forward jumps
const fastForwardStride = 20

// PageSink receives the engine's rendering decisions
type PageSink interface {
	ShowSlot(slot Slot, page int)
	ClearSlot(slot Slot)
}

// EngineOptions are the feature flags of the pagination engine
type EngineOptions struct {
	ParityMode          ParityMode
	PersistenceEnabled  bool
	CoverAlwaysAdvances bool
	Defaults            ReadingState
}

// Engine is the reading state machine. It owns the ReadingState and the page
// list of the loaded directory; every navigation intent ends in ShowPage.
// It is not safe for concurrent use: the viewer drives it from its update loop.
type Engine struct {
	state     ReadingState
	pages     []PageHandle
	listed    []PageHandle // enumeration order, the base of every re-sort
	dirKey    string
	dirName   string
	displayed [2]int // first, second page on screen; -1 when empty

	opts  EngineOptions
	sink  PageSink
	store *StateStore
	log   *zap.Logger
}

// NewEngine creates an engine with no directory loaded. store may be nil.
func NewEngine(opts EngineOptions, sink PageSink, store *StateStore, log *zap.Logger) *Engine {
	if opts.ParityMode == "" {
		opts.ParityMode = ParityModeToggle
	}
	state := opts.Defaults
	state.CurrentPageIndex = 0
	state.DirectoryLoaded = false
	return &Engine{
		state:     state,
		displayed: [2]int{-1, -1},
		opts:      opts,
		sink:      sink,
		store:     store,
		log:       log,
	}
}

// State returns a copy of the current reading state
func (e *Engine) State() ReadingState { return e.state }

// PageCount returns the number of pages of the loaded directory
func (e *Engine) PageCount() int { return len(e.pages) }

// Page returns the handle at index i, or nil
func (e *Engine) Page(i int) PageHandle {
	if i < 0 || i >= len(e.pages) {
		return nil
	}
	return e.pages[i]
}

// DirectoryName returns the name of the loaded directory
func (e *Engine) DirectoryName() string { return e.dirName }

// Displayed returns the page indices on screen in reading order; second is -1
// for a single page and both are -1 before anything was shown.
func (e *Engine) Displayed() (int, int) { return e.displayed[0], e.displayed[1] }

// FirstSlot is the slot that shows the logically first page of a spread
func (e *Engine) FirstSlot() Slot {
	if e.state.Direction == DirectionRTL {
		return SlotRight
	}
	return SlotLeft
}

func (e *Engine) secondSlot() Slot {
	if e.FirstSlot() == SlotLeft {
		return SlotRight
	}
	return SlotLeft
}

// LoadDirectory replaces the page list and restores the persisted state for
// directoryKey, or starts at the first page. It reports whether a saved state
// was restored.
func (e *Engine) LoadDirectory(ctx context.Context, directoryKey string, dir *LoadedDirectory) bool {
	e.sink.ClearSlot(SlotLeft)
	e.sink.ClearSlot(SlotRight)
	e.displayed = [2]int{-1, -1}

	e.pages = append([]PageHandle(nil), dir.Pages...)
	e.listed = dir.Listed
	if e.listed == nil {
		e.listed = e.pages
	}
	e.dirKey = directoryKey
	e.dirName = dir.Name
	e.state.DirectoryLoaded = true

	restored := false
	if e.opts.PersistenceEnabled && e.store != nil {
		saved, ok, err := e.store.Load(ctx, directoryKey)
		if err != nil {
			e.log.Warn("Failed to restore reading state", zap.String("directory", dir.Name), zap.Error(err))
		}
		if ok {
			saved.DirectoryLoaded = true
			e.state = saved
			restored = true
		}
	}
	if !restored {
		e.state.CurrentPageIndex = 0
	}

	// The directory may have shrunk since the state was saved
	if e.state.CurrentPageIndex >= len(e.pages) {
		e.state.CurrentPageIndex = max(0, len(e.pages)-1)
	}

	e.log.Debug("Reading state ready",
		zap.String("directory", dir.Name),
		zap.Bool("restored", restored),
		zap.Int("page", e.state.CurrentPageIndex),
		zap.String("direction", string(e.state.Direction)),
		zap.String("parity", string(e.state.Parity)),
		zap.Int("pagesPerView", e.state.PagesPerView))

	e.ShowPage(e.state.CurrentPageIndex)
	return restored
}

// spread returns the pages shown for index i in reading order
func (e *Engine) spread(i int) (int, int) {
	if e.state.PagesPerView < 2 {
		return i, -1
	}

	start := i
	if e.opts.ParityMode == ParityModeToggle {
		switch e.state.Parity {
		case ParityEven:
			start = i - i%2
		case ParityOdd:
			if i == 0 {
				return 0, -1 // cover stands alone
			}
			if i%2 == 0 {
				start = i - 1
			}
		}
	}

	if start+1 >= len(e.pages) {
		return start, -1
	}
	return start, start + 1
}

// ShowPage makes i the current page and renders its spread. Indices outside
// the page list are ignored.
func (e *Engine) ShowPage(i int) {
	if i < 0 || i >= len(e.pages) {
		return
	}
	e.state.CurrentPageIndex = i

	first, second := e.spread(i)
	e.sink.ShowSlot(e.FirstSlot(), first)
	if second < 0 {
		e.sink.ClearSlot(e.secondSlot())
	} else {
		e.sink.ShowSlot(e.secondSlot(), second)
	}
	e.displayed = [2]int{first, second}

	e.saveState()
}

func (e *Engine) saveState() {
	if !e.opts.PersistenceEnabled || e.store == nil {
		return
	}
	if err := e.store.Save(context.Background(), e.dirKey, &e.state); err != nil {
		e.log.Warn("Failed to save reading state", zap.String("directory", e.dirName), zap.Error(err))
	}
}

// Next advances by one view
func (e *Engine) Next() {
	e.ShowPage(min(len(e.pages), e.state.CurrentPageIndex+e.state.PagesPerView))
}

// Previous goes back by one view
func (e *Engine) Previous() {
	e.ShowPage(max(0, e.state.CurrentPageIndex-e.state.PagesPerView))
}

// First jumps to the first page
func (e *Engine) First() { e.ShowPage(0) }

// Last jumps to the last page
func (e *Engine) Last() { e.ShowPage(len(e.pages) - 1) }

// isForward reports whether moving toward side goes forward in the book
func (e *Engine) isForward(side Slot) bool {
	if e.state.Direction == DirectionRTL {
		return side == SlotLeft
	}
	return side == SlotRight
}

// PagesToward turns the page toward a visual side of the screen
func (e *Engine) PagesToward(side Slot) {
	if e.isForward(side) {
		e.Next()
	} else {
		e.Previous()
	}
}

// FastForward jumps fastForwardStride pages toward a visual side
func (e *Engine) FastForward(side Slot) {
	if e.isForward(side) {
		e.ShowPage(min(len(e.pages)-1, e.state.CurrentPageIndex+fastForwardStride))
	} else {
		e.ShowPage(max(0, e.state.CurrentPageIndex-fastForwardStride))
	}
}

// ToggleDirection swaps the reading direction and re-renders the same page
func (e *Engine) ToggleDirection() {
	e.state.Direction = e.state.Direction.Opposite()
	e.ShowPage(e.state.CurrentPageIndex)
}

// AdjustParity changes which pages are paired together
func (e *Engine) AdjustParity() {
	cur := e.state.CurrentPageIndex
	if e.opts.ParityMode == ParityModeShift {
		if cur%2 == 0 {
			e.ShowPage(min(len(e.pages), cur+1))
		} else {
			e.ShowPage(max(0, cur-1))
		}
		return
	}
	e.state.Parity = e.state.Parity.Opposite()
	e.ShowPage(cur)
}

// SetPagesPerView switches between single and double page views
func (e *Engine) SetPagesPerView(n int) {
	if n != 1 && n != 2 {
		return
	}
	e.state.PagesPerView = n
	e.ShowPage(e.state.CurrentPageIndex)
}

// TogglePagesPerView flips between one and two pages
func (e *Engine) TogglePagesPerView() {
	if e.state.PagesPerView == 1 {
		e.SetPagesPerView(2)
	} else {
		e.SetPagesPerView(1)
	}
}

// ClickSlot handles a click at offsetX inside a slot that is width wide.
// In single-page mode the populated slot is split in two click zones.
func (e *Engine) ClickSlot(slot Slot, offsetX, width float64) {
	if len(e.pages) == 0 {
		return
	}
	// Clicking the cover never appears to go before the start
	if e.opts.CoverAlwaysAdvances && e.state.CurrentPageIndex == 0 {
		e.Next()
		return
	}
	if e.state.PagesPerView == 1 && slot == e.FirstSlot() {
		if offsetX < width/2 {
			e.PagesToward(SlotLeft)
		} else {
			e.PagesToward(SlotRight)
		}
		return
	}
	e.PagesToward(slot)
}

// Reload drops what the slots show and renders the current spread again
func (e *Engine) Reload() {
	e.sink.ClearSlot(SlotLeft)
	e.sink.ClearSlot(SlotRight)
	e.ShowPage(e.state.CurrentPageIndex)
}

// Resort reorders the pages and keeps the current page on screen.
// Slots are emptied first: an unchanged index may now name another page.
func (e *Engine) Resort(strategy SortStrategy) {
	if len(e.pages) == 0 {
		return
	}
	current := e.pages[e.state.CurrentPageIndex]
	e.pages = sortPages(e.listed, strategy)
	e.sink.ClearSlot(SlotLeft)
	e.sink.ClearSlot(SlotRight)
	for i, p := range e.pages {
		if p == current {
			e.ShowPage(i)
			return
		}
	}
}

// PageReadout formats the displayed pages as "3-4 / 10" (1-based)
func (e *Engine) PageReadout() string {
	first, second := e.displayed[0], e.displayed[1]
	if first < 0 {
		return fmt.Sprintf("0 / %d", len(e.pages))
	}
	if second < 0 {
		return fmt.Sprintf("%d / %d", first+1, len(e.pages))
	}
	return fmt.Sprintf("%d-%d / %d", first+1, second+1, len(e.pages))
}
