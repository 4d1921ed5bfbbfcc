package main

import (
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
)

// InputHandler handles all keyboard and mouse input processing
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager
	keys                KeyState
	mouse               MouseState
}

// NewInputHandler creates a new InputHandler reading the real devices
func NewInputHandler(inputActions InputActions, inputState InputState, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
		keys:                ebitenKeyState{},
		mouse:               ebitenMouseState{},
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	if h.inputState.IsInPageInputMode() {
		return h.handlePageInputMode()
	}

	inputProcessed := false
	for _, action := range h.keybindingManager.Triggered(h.keys) {
		inputProcessed = globalActionExecutor.ExecuteAction(action, h.inputActions, h.inputState) || inputProcessed
	}
	for _, action := range h.mousebindingManager.Triggered(h.mouse) {
		inputProcessed = globalActionExecutor.ExecuteAction(action, h.inputActions, h.inputState) || inputProcessed
	}
	inputProcessed = h.handleClick() || inputProcessed

	return inputProcessed
}

// handleClick forwards an unmodified left click to the viewer, which routes
// it to the toolbar, the library grid or a page slot.
func (h *InputHandler) handleClick() bool {
	if !h.mousebindingManager.GetSettings().EnableMouse || h.mousebindingManager.Binds(ebiten.MouseButtonLeft) {
		return false
	}
	if !h.mouse.JustPressed(ebiten.MouseButtonLeft) || !(Modifiers{}).matches(h.mouse.KeyPressed) {
		return false
	}
	x, y := h.mouse.Cursor()
	h.inputActions.ClickAt(float64(x), float64(y))
	return true
}

func (h *InputHandler) handlePageInputMode() bool {
	if h.keys.JustPressed(ebiten.KeyEscape) {
		h.inputActions.ExitPageInputMode()
		return true
	}

	if h.keys.JustPressed(ebiten.KeyEnter) || h.keys.JustPressed(ebiten.KeyNumpadEnter) {
		h.inputActions.ProcessPageInput()
		h.inputActions.ExitPageInputMode()
		return true
	}

	if h.keys.JustPressed(ebiten.KeyBackspace) {
		currentBuffer := h.inputState.GetPageInputBuffer()
		if len(currentBuffer) > 0 {
			h.inputActions.UpdatePageInputBuffer(currentBuffer[:len(currentBuffer)-1])
		}
		return true
	}

	// Handle digit input (both regular and numpad)
	digit := h.checkDigitKeys(ebiten.Key0)
	if digit == "" {
		digit = h.checkDigitKeys(ebiten.KeyNumpad0)
	}
	if digit != "" {
		h.inputActions.UpdatePageInputBuffer(h.inputState.GetPageInputBuffer() + digit)
		return true
	}

	return false
}

// checkDigitKeys scans the ten consecutive keys starting at zero
func (h *InputHandler) checkDigitKeys(zero ebiten.Key) string {
	for i := 0; i < 10; i++ {
		if h.keys.JustPressed(zero + ebiten.Key(i)) {
			return strconv.Itoa(i)
		}
	}
	return ""
}
