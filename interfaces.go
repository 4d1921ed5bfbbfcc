package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// LibraryCell is one laid out cover of the library grid
type LibraryCell struct {
	Name  string
	Thumb *ebiten.Image // nil until the thumbnail is decoded
	Rect  Rect
}

// RenderState provides read-only access to viewer state for the renderer
type RenderState interface {
	// Display modes
	IsFullscreen() bool
	IsLibraryMode() bool
	IsToolbarVisible() bool

	// Pages
	GetSlotImage(slot Slot) *ebiten.Image
	GetSlotRegions() [slotCount]Rect
	GetReadingState() ReadingState
	GetPageReadout() string
	GetTotalPagesCount() int
	GetDirectoryName() string

	// Library
	GetLibraryCells() []LibraryCell

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	IsWaitingForFolder() bool
	IsLoading() bool
	IsInPageInputMode() bool
	GetPageInputBuffer() string
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// Display data
	GetToolbar() *Toolbar
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetSortMethodName() string
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()
	ToggleLibrary()

	// Folder selection
	SelectFolder()
	CancelFolderSelection()

	// Page input
	EnterPageInputMode()
	ExitPageInputMode()
	ProcessPageInput()
	UpdatePageInputBuffer(buffer string)

	// Reading settings
	ToggleDirection()
	AdjustParity()
	TogglePagesPerView()
	CycleSortMethod()
	Reload()

	// Navigation
	NavigateNext()
	NavigatePrevious()
	PageToward(side Slot)
	FastForward(side Slot)
	JumpFirst()
	JumpLast()
	ClickAt(x, y float64)

	// Messages
	ShowOverlayMessage(message string)

	// Common data access
	GetTotalPagesCount() int
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsInPageInputMode() bool
	GetPageInputBuffer() string
	IsWaitingForFolder() bool
	IsLibraryMode() bool
}
