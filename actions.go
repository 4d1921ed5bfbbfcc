package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions.
// Clicks on the pages themselves are routed by position and are not listed here.
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"Escape", "KeyQ"}, []string{}, "Quit application (Escape cancels a pending folder drop)"},
	{"help", []string{"Shift+Slash"}, []string{"Alt+RightClick"}, "Show/hide help"},
	{"info", []string{"KeyI"}, []string{}, "Show/hide page readout"},
	{"select_folder", []string{"KeyO"}, []string{}, "Select a folder (drop it onto the window)"},
	{"skip_left", []string{"ArrowLeft"}, []string{"Back"}, "Turn the page to the left"},
	{"skip_right", []string{"ArrowRight"}, []string{"Forward"}, "Turn the page to the right"},
	{"next", []string{"Space", "KeyN"}, []string{"WheelDown"}, "Next pages in reading order"},
	{"previous", []string{"Backspace", "KeyP"}, []string{"WheelUp"}, "Previous pages in reading order"},
	{"fast_forward_left", []string{"Shift+ArrowLeft"}, []string{}, "Jump 20 pages to the left"},
	{"fast_forward_right", []string{"Shift+ArrowRight"}, []string{}, "Jump 20 pages to the right"},
	{"first", []string{"Home", "Shift+Comma"}, []string{}, "Jump to first page"},
	{"last", []string{"End", "Shift+Period"}, []string{}, "Jump to last page"},
	{"page_input", []string{"KeyG"}, []string{}, "Go to page (enter page number)"},
	{"adjust_parity", []string{"KeyA"}, []string{"Ctrl+MiddleClick"}, "Shift page pairing by one"},
	{"toggle_direction", []string{"KeyD", "Shift+KeyB"}, []string{}, "Toggle reading direction (LTR ↔ RTL)"},
	{"toggle_pages_per_view", []string{"KeyB"}, []string{"MiddleClick"}, "Toggle one/two pages per view"},
	{"fullscreen", []string{"KeyF", "Enter"}, []string{}, "Toggle fullscreen"},
	{"cycle_sort", []string{"Shift+KeyS"}, []string{"Alt+MiddleClick"}, "Cycle sort method (Locale/Natural/Simple/Entry)"},
	{"library", []string{"KeyL"}, []string{}, "Show/hide the library"},
	{"reload", []string{"KeyR"}, []string{}, "Reload the pages on screen"},
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = append([]string(nil), action.Keys...)
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = append([]string(nil), action.MouseActions...)
	}
	return mousebindings
}
