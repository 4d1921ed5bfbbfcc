package main

import "testing"

type fakeRef struct {
	released int
}

func (r *fakeRef) Size() (int, int) { return 100, 150 }

func (r *fakeRef) Release() { r.released++ }

func TestSlotSetDeliver(t *testing.T) {
	s := NewSlotSet()
	if s.Page(SlotLeft) != -1 || s.Ref(SlotLeft) != nil {
		t.Fatal("new slots must be empty")
	}

	token, load := s.Begin(SlotLeft, 3)
	if !load {
		t.Fatal("first request must load")
	}
	ref := &fakeRef{}
	if !s.Deliver(token, ref) {
		t.Fatal("current token was rejected")
	}
	if s.Ref(SlotLeft) != ref || s.Page(SlotLeft) != 3 {
		t.Errorf("slot shows %v page %d", s.Ref(SlotLeft), s.Page(SlotLeft))
	}

	// Same page again needs no load and keeps the reference
	if _, load := s.Begin(SlotLeft, 3); load {
		t.Error("re-requesting the shown page should not load")
	}
	if ref.released != 0 {
		t.Error("shown reference was released")
	}
}

func TestSlotSetStaleDelivery(t *testing.T) {
	s := NewSlotSet()

	stale, _ := s.Begin(SlotRight, 1)
	current, _ := s.Begin(SlotRight, 2)

	late := &fakeRef{}
	if s.Deliver(stale, late) {
		t.Error("stale delivery was accepted")
	}
	if late.released != 1 {
		t.Errorf("stale reference released %d times, expected 1", late.released)
	}
	if s.Current(stale) || !s.Current(current) {
		t.Error("Current() disagrees with the latest request")
	}

	fresh := &fakeRef{}
	if !s.Deliver(current, fresh) {
		t.Fatal("current delivery was rejected")
	}
	if s.Ref(SlotRight) != fresh {
		t.Error("slot does not show the latest page")
	}
}

func TestSlotSetReplaceReleasesPrevious(t *testing.T) {
	s := NewSlotSet()
	first := &fakeRef{}
	token, _ := s.Begin(SlotLeft, 0)
	s.Deliver(token, first)

	second := &fakeRef{}
	token, _ = s.Begin(SlotLeft, 1)
	s.Deliver(token, second)

	if first.released != 1 {
		t.Errorf("replaced reference released %d times, expected 1", first.released)
	}
	if second.released != 0 {
		t.Error("displayed reference was released")
	}
}

func TestSlotSetClear(t *testing.T) {
	s := NewSlotSet()
	ref := &fakeRef{}
	token, _ := s.Begin(SlotLeft, 0)
	s.Deliver(token, ref)

	pending, _ := s.Begin(SlotRight, 1)
	s.ReleaseAll()

	if ref.released != 1 {
		t.Errorf("cleared reference released %d times, expected 1", ref.released)
	}
	if s.Page(SlotLeft) != -1 || s.Ref(SlotLeft) != nil {
		t.Error("cleared slot is not empty")
	}

	// A load that completes after the clear is dropped
	late := &fakeRef{}
	if s.Deliver(pending, late) {
		t.Error("delivery after clear was accepted")
	}
	if late.released != 1 {
		t.Error("late reference was not released")
	}

	// A cleared slot loads the same page again
	if _, load := s.Begin(SlotLeft, 0); !load {
		t.Error("cleared slot should reload")
	}
}
