package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest"
)

// recordingSink tracks what each slot shows; -1 means empty
type recordingSink struct {
	slots [slotCount]int
	calls int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{slots: [slotCount]int{-1, -1}}
}

func (s *recordingSink) ShowSlot(slot Slot, page int) {
	s.slots[slot] = page
	s.calls++
}

func (s *recordingSink) ClearSlot(slot Slot) {
	s.slots[slot] = -1
	s.calls++
}

func numberedPages(n int) []PageHandle {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%03d.png", i)
	}
	return fakePages(names...)
}

type engineFixture struct {
	engine *Engine
	sink   *recordingSink
}

func newEngineFixture(t *testing.T, n int, configure func(*EngineOptions)) engineFixture {
	t.Helper()
	opts := EngineOptions{
		ParityMode:          ParityModeToggle,
		CoverAlwaysAdvances: false,
		Defaults:            DefaultReadingState(),
	}
	if configure != nil {
		configure(&opts)
	}
	sink := newRecordingSink()
	engine := NewEngine(opts, sink, nil, zaptest.NewLogger(t))
	engine.LoadDirectory(context.Background(), "book", &LoadedDirectory{Name: "book", Pages: numberedPages(n)})
	return engineFixture{engine: engine, sink: sink}
}

func ltr(opts *EngineOptions) { opts.Defaults.Direction = DirectionLTR }

func (f engineFixture) expectSlots(t *testing.T, left, right int) {
	t.Helper()
	if f.sink.slots[SlotLeft] != left || f.sink.slots[SlotRight] != right {
		t.Errorf("slots = (left %d, right %d), expected (left %d, right %d)",
			f.sink.slots[SlotLeft], f.sink.slots[SlotRight], left, right)
	}
}

func (f engineFixture) expectIndex(t *testing.T, expected int) {
	t.Helper()
	if got := f.engine.State().CurrentPageIndex; got != expected {
		t.Errorf("CurrentPageIndex = %d, expected %d", got, expected)
	}
}

func TestLoadDirectoryRightToLeftSpread(t *testing.T) {
	sink := newRecordingSink()
	engine := NewEngine(EngineOptions{Defaults: DefaultReadingState()}, sink, nil, zaptest.NewLogger(t))

	pages := sortPages(fakePages("a", "c", "b"), &SimpleSortStrategy{})
	restored := engine.LoadDirectory(context.Background(), "abc", &LoadedDirectory{Name: "abc", Pages: pages})

	if restored {
		t.Error("nothing was saved, expected a fresh start")
	}
	st := engine.State()
	if !st.DirectoryLoaded || st.CurrentPageIndex != 0 {
		t.Errorf("unexpected state after load: %+v", st)
	}
	if engine.PageCount() != 3 {
		t.Fatalf("PageCount() = %d, expected 3", engine.PageCount())
	}
	if name := engine.Page(sink.slots[SlotRight]).Name(); name != "a" {
		t.Errorf("right slot shows %q, expected a", name)
	}
	if name := engine.Page(sink.slots[SlotLeft]).Name(); name != "b" {
		t.Errorf("left slot shows %q, expected b", name)
	}
}

func TestLoadDirectoryLeftToRight(t *testing.T) {
	f := newEngineFixture(t, 4, ltr)
	f.expectSlots(t, 0, 1)
	if f.engine.FirstSlot() != SlotLeft {
		t.Errorf("FirstSlot() = %v, expected left", f.engine.FirstSlot())
	}
}

func TestLoadEmptyDirectory(t *testing.T) {
	f := newEngineFixture(t, 0, nil)

	if !f.engine.State().DirectoryLoaded {
		t.Error("an empty directory is still loaded")
	}
	f.expectSlots(t, -1, -1)
	if got := f.engine.PageReadout(); got != "0 / 0" {
		t.Errorf("PageReadout() = %q, expected 0 / 0", got)
	}

	// Navigation on an empty directory is a no-op
	f.engine.Next()
	f.engine.Last()
	f.engine.FastForward(SlotLeft)
	f.engine.ClickSlot(SlotLeft, 0, 100)
	f.expectIndex(t, 0)
	f.expectSlots(t, -1, -1)
}

func TestShowPageOutOfRange(t *testing.T) {
	f := newEngineFixture(t, 5, nil)
	f.engine.ShowPage(2)
	calls := f.sink.calls
	before := f.engine.State()

	for _, i := range []int{5, 6, -1} {
		f.engine.ShowPage(i)
	}

	if f.engine.State() != before {
		t.Errorf("state changed: %+v -> %+v", before, f.engine.State())
	}
	if f.sink.calls != calls {
		t.Errorf("slots were touched %d times", f.sink.calls-calls)
	}
}

func TestSpreadEvenParity(t *testing.T) {
	tests := []struct {
		index         int
		first, second int
	}{
		{0, 0, 1},
		{1, 0, 1},
		{2, 2, 3},
		{3, 2, 3},
		{4, 4, -1}, // last page of an odd count stands alone
	}

	f := newEngineFixture(t, 5, ltr)
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.index), func(t *testing.T) {
			f.engine.ShowPage(tt.index)
			first, second := f.engine.Displayed()
			if first != tt.first || second != tt.second {
				t.Errorf("Displayed() = (%d, %d), expected (%d, %d)", first, second, tt.first, tt.second)
			}
			f.expectSlots(t, tt.first, tt.second)
			f.expectIndex(t, tt.index)
		})
	}
}

func TestSpreadOddParity(t *testing.T) {
	tests := []struct {
		index         int
		first, second int
	}{
		{0, 0, -1}, // cover
		{1, 1, 2},
		{2, 1, 2},
		{3, 3, 4},
		{4, 3, 4},
		{5, 5, -1},
	}

	f := newEngineFixture(t, 6, func(o *EngineOptions) {
		o.Defaults.Parity = ParityOdd
		o.Defaults.Direction = DirectionLTR
	})
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.index), func(t *testing.T) {
			f.engine.ShowPage(tt.index)
			first, second := f.engine.Displayed()
			if first != tt.first || second != tt.second {
				t.Errorf("Displayed() = (%d, %d), expected (%d, %d)", first, second, tt.first, tt.second)
			}
		})
	}
}

func TestSinglePageView(t *testing.T) {
	f := newEngineFixture(t, 4, func(o *EngineOptions) { o.Defaults.PagesPerView = 1 })

	// RTL single page uses the right slot only
	f.expectSlots(t, -1, 0)
	f.engine.Next()
	f.expectIndex(t, 1)
	f.expectSlots(t, -1, 1)
	if got := f.engine.PageReadout(); got != "2 / 4" {
		t.Errorf("PageReadout() = %q, expected 2 / 4", got)
	}
}

func TestNavigationClamps(t *testing.T) {
	f := newEngineFixture(t, 5, nil)

	f.engine.Previous()
	f.expectIndex(t, 0)

	f.engine.Next()
	f.engine.Next()
	f.expectIndex(t, 4)
	f.engine.Next()
	f.expectIndex(t, 4)

	f.engine.Previous()
	f.expectIndex(t, 2)
	f.engine.First()
	f.expectIndex(t, 0)
	f.engine.Last()
	f.expectIndex(t, 4)
}

func TestFastForward(t *testing.T) {
	tests := []struct {
		name      string
		pages     int
		start     int
		direction Direction
		side      Slot
		expected  int
	}{
		{"LTR right", 40, 5, DirectionLTR, SlotRight, 25},
		{"LTR right clamps", 10, 5, DirectionLTR, SlotRight, 9},
		{"LTR left clamps", 40, 5, DirectionLTR, SlotLeft, 0},
		{"LTR left", 40, 30, DirectionLTR, SlotLeft, 10},
		{"RTL left is forward", 40, 5, DirectionRTL, SlotLeft, 25},
		{"RTL right is back", 40, 25, DirectionRTL, SlotRight, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, tt.pages, func(o *EngineOptions) { o.Defaults.Direction = tt.direction })
			f.engine.ShowPage(tt.start)
			f.engine.FastForward(tt.side)
			f.expectIndex(t, tt.expected)
		})
	}
}

func TestPagesToward(t *testing.T) {
	f := newEngineFixture(t, 10, nil)

	// Right to left: the left side is forward
	f.engine.PagesToward(SlotLeft)
	f.expectIndex(t, 2)
	f.engine.PagesToward(SlotRight)
	f.expectIndex(t, 0)

	f.engine.ToggleDirection()
	f.engine.PagesToward(SlotRight)
	f.expectIndex(t, 2)
}

func TestToggleDirectionIsItsOwnInverse(t *testing.T) {
	f := newEngineFixture(t, 6, nil)
	f.engine.ShowPage(2)
	before := f.engine.State()
	f.expectSlots(t, 3, 2)

	f.engine.ToggleDirection()
	if f.engine.State().Direction != DirectionLTR {
		t.Errorf("Direction = %s, expected LTR", f.engine.State().Direction)
	}
	f.expectSlots(t, 2, 3)

	f.engine.ToggleDirection()
	if f.engine.State() != before {
		t.Errorf("state after two toggles = %+v, expected %+v", f.engine.State(), before)
	}
	f.expectSlots(t, 3, 2)
}

func TestAdjustParityToggle(t *testing.T) {
	f := newEngineFixture(t, 6, ltr)
	f.engine.ShowPage(2)

	f.engine.AdjustParity()
	if f.engine.State().Parity != ParityOdd {
		t.Errorf("Parity = %s, expected ODD", f.engine.State().Parity)
	}
	f.expectIndex(t, 2)
	f.expectSlots(t, 1, 2)

	f.engine.AdjustParity()
	if f.engine.State().Parity != ParityEven {
		t.Errorf("Parity = %s, expected EVEN", f.engine.State().Parity)
	}
	f.expectSlots(t, 2, 3)
}

func TestAdjustParityShift(t *testing.T) {
	f := newEngineFixture(t, 6, func(o *EngineOptions) {
		o.ParityMode = ParityModeShift
		o.Defaults.Direction = DirectionLTR
	})

	f.engine.AdjustParity()
	f.expectIndex(t, 1)
	f.expectSlots(t, 1, 2)

	f.engine.AdjustParity()
	f.expectIndex(t, 0)
	f.expectSlots(t, 0, 1)

	if f.engine.State().Parity != ParityEven {
		t.Error("shift mode must not change the stored parity")
	}
}

func TestSetPagesPerView(t *testing.T) {
	f := newEngineFixture(t, 6, ltr)
	f.engine.ShowPage(3)

	f.engine.SetPagesPerView(3)
	if f.engine.State().PagesPerView != 2 {
		t.Errorf("invalid pages per view was accepted")
	}

	f.engine.TogglePagesPerView()
	if f.engine.State().PagesPerView != 1 {
		t.Errorf("PagesPerView = %d, expected 1", f.engine.State().PagesPerView)
	}
	f.expectIndex(t, 3)
	f.expectSlots(t, 3, -1)

	f.engine.TogglePagesPerView()
	f.expectSlots(t, 2, 3)
}

func TestClickSlot(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*EngineOptions)
		start     int
		slot      Slot
		offsetX   float64
		expected  int
	}{
		{"RTL left goes forward", nil, 2, SlotLeft, 10, 4},
		{"RTL right goes back", nil, 2, SlotRight, 10, 0},
		{"LTR right goes forward", ltr, 2, SlotRight, 10, 4},
		{"cover click backwards stays", nil, 0, SlotRight, 10, 0},
		{"cover always advances", func(o *EngineOptions) { o.CoverAlwaysAdvances = true }, 0, SlotRight, 10, 2},
		{"single page left half RTL", func(o *EngineOptions) { o.Defaults.PagesPerView = 1 }, 3, SlotRight, 10, 4},
		{"single page right half RTL", func(o *EngineOptions) { o.Defaults.PagesPerView = 1 }, 3, SlotRight, 90, 2},
		{"single page right half LTR", func(o *EngineOptions) {
			o.Defaults.PagesPerView = 1
			o.Defaults.Direction = DirectionLTR
		}, 3, SlotLeft, 90, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, 10, tt.configure)
			f.engine.ShowPage(tt.start)
			f.engine.ClickSlot(tt.slot, tt.offsetX, 100)
			f.expectIndex(t, tt.expected)
		})
	}
}

func TestReloadRendersAgain(t *testing.T) {
	f := newEngineFixture(t, 4, ltr)
	f.sink.slots = [slotCount]int{-1, -1}

	f.engine.Reload()
	f.expectSlots(t, 0, 1)
}

func TestResortKeepsCurrentPage(t *testing.T) {
	sink := newRecordingSink()
	engine := NewEngine(EngineOptions{Defaults: DefaultReadingState()}, sink, nil, zaptest.NewLogger(t))
	pages := sortPages(fakePages("10.png", "2.png", "1.png"), &SimpleSortStrategy{})
	engine.LoadDirectory(context.Background(), "book", &LoadedDirectory{Name: "book", Pages: pages})

	// Simple order is 1, 10, 2
	engine.ShowPage(2)
	if engine.Page(2).Name() != "2.png" {
		t.Fatalf("unexpected order %v", pageNames(pages))
	}

	engine.Resort(&NaturalSortStrategy{})
	cur := engine.State().CurrentPageIndex
	if engine.Page(cur).Name() != "2.png" {
		t.Errorf("current page is %q after resort, expected 2.png", engine.Page(cur).Name())
	}
	if cur != 1 {
		t.Errorf("CurrentPageIndex = %d, expected 1", cur)
	}
}

func TestPageReadout(t *testing.T) {
	engine := NewEngine(EngineOptions{Defaults: DefaultReadingState()}, newRecordingSink(), nil, zaptest.NewLogger(t))
	if got := engine.PageReadout(); got != "0 / 0" {
		t.Errorf("PageReadout() before load = %q", got)
	}

	f := newEngineFixture(t, 5, nil)
	if got := f.engine.PageReadout(); got != "1-2 / 5" {
		t.Errorf("PageReadout() = %q, expected 1-2 / 5", got)
	}
	f.engine.Last()
	if got := f.engine.PageReadout(); got != "5 / 5" {
		t.Errorf("PageReadout() = %q, expected 5 / 5", got)
	}
}

func TestReadingStatePersistence(t *testing.T) {
	store := NewStateStore(NewMemoryStore(), nil, zaptest.NewLogger(t))
	opts := EngineOptions{PersistenceEnabled: true, Defaults: DefaultReadingState()}
	ctx := context.Background()

	first := NewEngine(opts, newRecordingSink(), store, zaptest.NewLogger(t))
	first.LoadDirectory(ctx, "book", &LoadedDirectory{Name: "book", Pages: numberedPages(10)})
	first.ShowPage(5)
	first.ToggleDirection()
	first.AdjustParity()
	first.SetPagesPerView(1)
	saved := first.State()

	second := NewEngine(opts, newRecordingSink(), store, zaptest.NewLogger(t))
	if !second.LoadDirectory(ctx, "book", &LoadedDirectory{Name: "book", Pages: numberedPages(10)}) {
		t.Fatal("expected the saved state to be restored")
	}
	got := second.State()
	if got.CurrentPageIndex != saved.CurrentPageIndex ||
		got.Direction != saved.Direction ||
		got.Parity != saved.Parity ||
		got.PagesPerView != saved.PagesPerView {
		t.Errorf("restored %+v, expected %+v", got, saved)
	}

	// Another directory starts fresh but keeps the current preferences
	if second.LoadDirectory(ctx, "other", &LoadedDirectory{Name: "other", Pages: numberedPages(3)}) {
		t.Error("unexpected restore for a new directory")
	}
	if second.State().CurrentPageIndex != 0 {
		t.Errorf("new directory should open at the first page")
	}
	if second.State().Direction != saved.Direction {
		t.Errorf("direction preference was lost")
	}
}

func TestRestoredIndexIsClamped(t *testing.T) {
	store := NewStateStore(NewMemoryStore(), nil, zaptest.NewLogger(t))
	opts := EngineOptions{PersistenceEnabled: true, Defaults: DefaultReadingState()}
	ctx := context.Background()

	first := NewEngine(opts, newRecordingSink(), store, zaptest.NewLogger(t))
	first.LoadDirectory(ctx, "book", &LoadedDirectory{Name: "book", Pages: numberedPages(10)})
	first.ShowPage(9)

	// The directory lost pages since the last visit
	sink := newRecordingSink()
	second := NewEngine(opts, sink, store, zaptest.NewLogger(t))
	second.LoadDirectory(ctx, "book", &LoadedDirectory{Name: "book", Pages: numberedPages(4)})
	if got := second.State().CurrentPageIndex; got != 3 {
		t.Errorf("CurrentPageIndex = %d, expected 3", got)
	}
	if sink.slots[SlotLeft] != 3 && sink.slots[SlotRight] != 3 {
		t.Errorf("page 3 is not on screen: %v", sink.slots)
	}
}

func TestPersistenceDisabled(t *testing.T) {
	kv := NewMemoryStore()
	store := NewStateStore(kv, nil, zaptest.NewLogger(t))
	engine := NewEngine(EngineOptions{Defaults: DefaultReadingState()}, newRecordingSink(), store, zaptest.NewLogger(t))
	engine.LoadDirectory(context.Background(), "book", &LoadedDirectory{Name: "book", Pages: numberedPages(4)})
	engine.ShowPage(2)

	if _, err := kv.Get(context.Background(), StateKey("book")); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("state was saved with persistence disabled (err=%v)", err)
	}
}

// namedRef is a loaded page that remembers which file it came from
type namedRef struct {
	name string
}

func (r *namedRef) Size() (int, int) { return 100, 150 }

func (r *namedRef) Release() {}

// slotSetSink drives a real SlotSet the way the viewer does: a slot only
// loads when Begin asks for it, and loads complete at once.
type slotSetSink struct {
	slots  *SlotSet
	engine *Engine
}

func (s *slotSetSink) ShowSlot(slot Slot, page int) {
	token, load := s.slots.Begin(slot, page)
	if load {
		s.slots.Deliver(token, &namedRef{name: s.engine.Page(page).Name()})
	}
}

func (s *slotSetSink) ClearSlot(slot Slot) { s.slots.Clear(slot) }

func (s *slotSetSink) shown(slot Slot) string {
	if ref, ok := s.slots.Ref(slot).(*namedRef); ok {
		return ref.name
	}
	return ""
}

func TestResortReloadsSlots(t *testing.T) {
	sink := &slotSetSink{slots: NewSlotSet()}
	opts := EngineOptions{Defaults: DefaultReadingState()}
	opts.Defaults.Direction = DirectionLTR
	engine := NewEngine(opts, sink, nil, zaptest.NewLogger(t))
	sink.engine = engine

	pages := sortPages(fakePages("1.jpg", "10.jpg", "2.jpg"), &SimpleSortStrategy{})
	engine.LoadDirectory(context.Background(), "book", &LoadedDirectory{Name: "book", Pages: pages})
	if sink.shown(SlotLeft) != "1.jpg" || sink.shown(SlotRight) != "10.jpg" {
		t.Fatalf("slots show %q, %q before resort", sink.shown(SlotLeft), sink.shown(SlotRight))
	}

	engine.Resort(&NaturalSortStrategy{})

	first, second := engine.Displayed()
	if engine.Page(first).Name() != "1.jpg" || engine.Page(second).Name() != "2.jpg" {
		t.Fatalf("spread after resort = %q, %q", engine.Page(first).Name(), engine.Page(second).Name())
	}
	if sink.shown(SlotLeft) != "1.jpg" || sink.shown(SlotRight) != "2.jpg" {
		t.Errorf("slots show %q, %q after resort, expected 1.jpg, 2.jpg", sink.shown(SlotLeft), sink.shown(SlotRight))
	}
}

func TestResortEntryOrderRestoresListing(t *testing.T) {
	listed := fakePages("c.jpg", "a.jpg", "b.jpg")
	dir := &LoadedDirectory{
		Name:   "book",
		Pages:  sortPages(listed, &SimpleSortStrategy{}),
		Listed: listed,
	}
	engine := NewEngine(EngineOptions{Defaults: DefaultReadingState()}, newRecordingSink(), nil, zaptest.NewLogger(t))
	engine.LoadDirectory(context.Background(), "book", dir)
	engine.ShowPage(1) // b.jpg

	engine.Resort(&EntryOrderSortStrategy{})
	got := make([]string, engine.PageCount())
	for i := range got {
		got[i] = engine.Page(i).Name()
	}
	if expected := []string{"c.jpg", "a.jpg", "b.jpg"}; fmt.Sprint(got) != fmt.Sprint(expected) {
		t.Errorf("entry order after resort = %v, expected %v", got, expected)
	}
	if cur := engine.State().CurrentPageIndex; engine.Page(cur).Name() != "b.jpg" {
		t.Errorf("current page is %q, expected b.jpg", engine.Page(cur).Name())
	}

	// Sorting again starts from the listing, not from the previous order
	engine.Resort(&SimpleSortStrategy{})
	engine.Resort(&EntryOrderSortStrategy{})
	if engine.Page(0).Name() != "c.jpg" {
		t.Errorf("first page after a second cycle is %q, expected c.jpg", engine.Page(0).Name())
	}
}

func TestOddParityLoneLastPage(t *testing.T) {
	f := newEngineFixture(t, 4, func(o *EngineOptions) {
		o.Defaults.Parity = ParityOdd
		o.Defaults.Direction = DirectionLTR
	})

	// 0 is the cover, 1-2 a pair, 3 is left over and shown by itself
	f.engine.ShowPage(3)
	first, second := f.engine.Displayed()
	if first != 3 || second != -1 {
		t.Errorf("Displayed() = (%d, %d), expected (3, -1)", first, second)
	}
	f.expectSlots(t, 3, -1)
	if got := f.engine.PageReadout(); got != "4 / 4" {
		t.Errorf("PageReadout() = %q, expected 4 / 4", got)
	}

	f.engine.ShowPage(2)
	f.expectSlots(t, 1, 2)
}
