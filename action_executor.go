package main

// ActionExecutor maps action names to InputActions calls.
// Keyboard, mouse and toolbar input all end up here.
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction runs action and reports whether the name was known
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "exit":
		// Escape while waiting for a drop only abandons the selection
		if inputState.IsWaitingForFolder() {
			inputActions.CancelFolderSelection()
		} else {
			inputActions.Exit()
		}
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "select_folder":
		inputActions.SelectFolder()
	case "skip_left":
		inputActions.PageToward(SlotLeft)
	case "skip_right":
		inputActions.PageToward(SlotRight)
	case "next":
		inputActions.NavigateNext()
	case "previous":
		inputActions.NavigatePrevious()
	case "fast_forward_left":
		inputActions.FastForward(SlotLeft)
	case "fast_forward_right":
		inputActions.FastForward(SlotRight)
	case "first":
		inputActions.JumpFirst()
	case "last":
		inputActions.JumpLast()
	case "page_input":
		if !inputState.IsInPageInputMode() {
			inputActions.EnterPageInputMode()
		}
	case "adjust_parity":
		inputActions.AdjustParity()
	case "toggle_direction":
		inputActions.ToggleDirection()
	case "toggle_pages_per_view":
		inputActions.TogglePagesPerView()
	case "fullscreen":
		inputActions.ToggleFullscreen()
	case "cycle_sort":
		inputActions.CycleSortMethod()
	case "library":
		inputActions.ToggleLibrary()
	case "reload":
		inputActions.Reload()
	default:
		return false
	}

	return true
}

// globalActionExecutor is the shared ActionExecutor used by all input sources
var globalActionExecutor = NewActionExecutor()
