package main

import (
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `mapstructure:"wheel_sensitivity" json:"wheel_sensitivity"`
	DoubleClickTime  int     `mapstructure:"double_click_time" json:"double_click_time"` // milliseconds
	EnableMouse      bool    `mapstructure:"enable_mouse" json:"enable_mouse"`
	WheelInverted    bool    `mapstructure:"wheel_inverted" json:"wheel_inverted"`
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300,
		EnableMouse:      true,
		WheelInverted:    false,
	}
}

// MouseState is the mouse as seen during one frame
type MouseState interface {
	JustPressed(button ebiten.MouseButton) bool
	KeyPressed(key ebiten.Key) bool
	Wheel() (float64, float64)
	Cursor() (int, int)
}

// ebitenMouseState reads the real mouse
type ebitenMouseState struct{}

func (ebitenMouseState) JustPressed(b ebiten.MouseButton) bool { return inpututil.IsMouseButtonJustPressed(b) }
func (ebitenMouseState) KeyPressed(key ebiten.Key) bool        { return ebiten.IsKeyPressed(key) }
func (ebitenMouseState) Wheel() (float64, float64)             { return ebiten.Wheel() }
func (ebitenMouseState) Cursor() (int, int)                    { return ebiten.CursorPosition() }

// getMouseMapping returns a mapping from string mouse actions to Ebiten mouse buttons
func getMouseMapping() map[string]ebiten.MouseButton {
	return map[string]ebiten.MouseButton{
		"LeftClick":   ebiten.MouseButtonLeft,
		"RightClick":  ebiten.MouseButtonRight,
		"MiddleClick": ebiten.MouseButtonMiddle,
		"Back":        ebiten.MouseButton3,
		"Forward":     ebiten.MouseButton4,
	}
}

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaX   float64
	WheelDeltaY   float64
	IsDoubleClick bool
	Modifiers
}

// ParseMouseString parses a mouse string like "Shift+LeftClick" or "WheelUp"
func ParseMouseString(mouseStr string) (MouseCombination, bool) {
	parts := strings.Split(mouseStr, "+")
	actionName := parts[len(parts)-1]
	combination := MouseCombination{Modifiers: parseModifiers(parts[:len(parts)-1])}

	switch {
	case strings.HasPrefix(actionName, "Wheel"):
		combination.IsWheel = true
		switch actionName {
		case "WheelUp":
			combination.WheelDeltaY = 1.0
		case "WheelDown":
			combination.WheelDeltaY = -1.0
		case "WheelLeft":
			combination.WheelDeltaX = -1.0
		case "WheelRight":
			combination.WheelDeltaX = 1.0
		default:
			return MouseCombination{}, false
		}
	case strings.HasPrefix(actionName, "Double"):
		button, exists := getMouseMapping()[strings.TrimPrefix(actionName, "Double")]
		if !exists {
			return MouseCombination{}, false
		}
		combination.IsDoubleClick = true
		combination.Button = button
	default:
		button, exists := getMouseMapping()[actionName]
		if !exists {
			return MouseCombination{}, false
		}
		combination.Button = button
	}
	return combination, true
}

// DoubleClickTracker tracks double-click state
type DoubleClickTracker struct {
	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int
}

// click records a press of button at now and reports whether it completes a double click
func (t *DoubleClickTracker) click(button ebiten.MouseButton, now time.Time, window time.Duration) bool {
	if t.clickCount > 0 && t.lastClickButton == button && now.Sub(t.lastClickTime) <= window {
		t.clickCount = 0
		t.lastClickTime = now
		return true
	}
	t.clickCount = 1
	t.lastClickButton = button
	t.lastClickTime = now
	return false
}

type mouseBinding struct {
	action string
	combo  MouseCombination
}

// MousebindingManager turns mouse buttons and wheel movement into action names
type MousebindingManager struct {
	mousebindings      map[string][]string
	bindings           []mouseBinding
	settings           MouseSettings
	doubleClickTracker DoubleClickTracker
	now                func() time.Time
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{settings: settings, now: time.Now}
	mm.UpdateMousebindings(mousebindings)
	return mm
}

// Triggered returns the actions fired by the mouse this frame
func (mm *MousebindingManager) Triggered(ms MouseState) []string {
	if !mm.settings.EnableMouse {
		return nil
	}

	wheelX, wheelY := ms.Wheel()
	if mm.settings.WheelInverted {
		wheelY = -wheelY
	}
	wheelX *= mm.settings.WheelSensitivity
	wheelY *= mm.settings.WheelSensitivity

	// Double clicks are tracked once per button per frame
	doubled := map[ebiten.MouseButton]bool{}
	for button := range mm.doubleClickButtons() {
		if ms.JustPressed(button) {
			doubled[button] = mm.doubleClickTracker.click(button, mm.now(),
				time.Duration(mm.settings.DoubleClickTime)*time.Millisecond)
		}
	}

	var actions []string
	for _, b := range mm.bindings {
		if !b.combo.matches(ms.KeyPressed) {
			continue
		}
		fired := false
		switch {
		case b.combo.IsWheel:
			fired = (b.combo.WheelDeltaX > 0 && wheelX > 0) || (b.combo.WheelDeltaX < 0 && wheelX < 0) ||
				(b.combo.WheelDeltaY > 0 && wheelY > 0) || (b.combo.WheelDeltaY < 0 && wheelY < 0)
		case b.combo.IsDoubleClick:
			fired = doubled[b.combo.Button]
		default:
			fired = ms.JustPressed(b.combo.Button)
		}
		if fired && (len(actions) == 0 || actions[len(actions)-1] != b.action) {
			actions = append(actions, b.action)
		}
	}
	return actions
}

// Binds reports whether a plain press of button is bound to an action
func (mm *MousebindingManager) Binds(button ebiten.MouseButton) bool {
	for _, b := range mm.bindings {
		if !b.combo.IsWheel && b.combo.Button == button && b.combo.Modifiers == (Modifiers{}) {
			return true
		}
	}
	return false
}

func (mm *MousebindingManager) doubleClickButtons() map[ebiten.MouseButton]struct{} {
	buttons := map[ebiten.MouseButton]struct{}{}
	for _, b := range mm.bindings {
		if b.combo.IsDoubleClick {
			buttons[b.combo.Button] = struct{}{}
		}
	}
	return buttons
}

// GetMousebindings returns the current mouse bindings map (for display purposes)
func (mm *MousebindingManager) GetMousebindings() map[string][]string {
	return mm.mousebindings
}

// UpdateMousebindings replaces the mouse bindings map
func (mm *MousebindingManager) UpdateMousebindings(mousebindings map[string][]string) {
	mm.mousebindings = mousebindings
	mm.bindings = mm.bindings[:0]
	for _, name := range actionOrder(mousebindings) {
		for _, mouseStr := range mousebindings[name] {
			if combo, ok := ParseMouseString(mouseStr); ok {
				mm.bindings = append(mm.bindings, mouseBinding{action: name, combo: combo})
			}
		}
	}
}

// GetSettings returns the current mouse settings
func (mm *MousebindingManager) GetSettings() MouseSettings {
	return mm.settings
}
