package main

// Slot is one of the two page positions on screen
type Slot int

const (
	SlotLeft Slot = iota
	SlotRight
	slotCount
)

func (s Slot) String() string {
	if s == SlotLeft {
		return "left"
	}
	return "right"
}

// DisplayRef is a displayable page owned by exactly one slot.
// Release frees the underlying resource and must be safe to call once.
type DisplayRef interface {
	Size() (int, int)
	Release()
}

// SlotToken identifies one load request for a slot
type SlotToken struct {
	Slot       Slot
	Generation uint64
	Page       int
}

type slotState struct {
	generation uint64
	page       int // -1 when empty or cleared
	ref        DisplayRef
	loading    bool
}

// SlotSet owns the display references of both slots. Every request bumps the
// slot's generation, so a load that finishes after a newer request was made
// is discarded instead of overwriting the newer page.
type SlotSet struct {
	slots [slotCount]slotState
}

// NewSlotSet returns two empty slots
func NewSlotSet() *SlotSet {
	s := &SlotSet{}
	for i := range s.slots {
		s.slots[i].page = -1
	}
	return s
}

// Begin starts a load of page into slot and returns its token. A slot
// already showing that page keeps its reference and needs no load.
func (s *SlotSet) Begin(slot Slot, page int) (SlotToken, bool) {
	st := &s.slots[slot]
	if st.page == page && (st.ref != nil || st.loading) {
		return SlotToken{Slot: slot, Generation: st.generation, Page: page}, false
	}
	st.generation++
	st.page = page
	st.loading = true
	return SlotToken{Slot: slot, Generation: st.generation, Page: page}, true
}

// Deliver installs ref if token is still current. The previous reference is
// released first. Stale refs are released immediately and false is returned.
func (s *SlotSet) Deliver(token SlotToken, ref DisplayRef) bool {
	st := &s.slots[token.Slot]
	if token.Generation != st.generation {
		if ref != nil {
			ref.Release()
		}
		return false
	}
	if st.ref != nil && st.ref != ref {
		st.ref.Release()
	}
	st.ref = ref
	st.loading = false
	return true
}

// Clear empties slot and invalidates any load in flight for it
func (s *SlotSet) Clear(slot Slot) {
	st := &s.slots[slot]
	st.generation++
	st.page = -1
	st.loading = false
	if st.ref != nil {
		st.ref.Release()
		st.ref = nil
	}
}

// ReleaseAll clears both slots
func (s *SlotSet) ReleaseAll() {
	for slot := Slot(0); slot < slotCount; slot++ {
		s.Clear(slot)
	}
}

// Ref returns the reference currently displayed in slot, or nil
func (s *SlotSet) Ref(slot Slot) DisplayRef {
	return s.slots[slot].ref
}

// Page returns the page index assigned to slot, or -1
func (s *SlotSet) Page(slot Slot) int {
	return s.slots[slot].page
}

// Current reports whether token still matches the slot's latest request
func (s *SlotSet) Current(token SlotToken) bool {
	return s.slots[token.Slot].generation == token.Generation
}
