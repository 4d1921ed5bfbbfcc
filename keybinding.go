package main

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyState is the keyboard as seen during one frame
type KeyState interface {
	JustPressed(key ebiten.Key) bool
	Pressed(key ebiten.Key) bool
}

// ebitenKeyState reads the real keyboard
type ebitenKeyState struct{}

func (ebitenKeyState) JustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }
func (ebitenKeyState) Pressed(key ebiten.Key) bool     { return ebiten.IsKeyPressed(key) }

// getKeyMapping returns a mapping from string keys to Ebiten keys
func getKeyMapping() map[string]ebiten.Key {
	return map[string]ebiten.Key{
		// Letters
		"KeyA": ebiten.KeyA, "KeyB": ebiten.KeyB, "KeyC": ebiten.KeyC, "KeyD": ebiten.KeyD,
		"KeyE": ebiten.KeyE, "KeyF": ebiten.KeyF, "KeyG": ebiten.KeyG, "KeyH": ebiten.KeyH,
		"KeyI": ebiten.KeyI, "KeyJ": ebiten.KeyJ, "KeyK": ebiten.KeyK, "KeyL": ebiten.KeyL,
		"KeyM": ebiten.KeyM, "KeyN": ebiten.KeyN, "KeyO": ebiten.KeyO, "KeyP": ebiten.KeyP,
		"KeyQ": ebiten.KeyQ, "KeyR": ebiten.KeyR, "KeyS": ebiten.KeyS, "KeyT": ebiten.KeyT,
		"KeyU": ebiten.KeyU, "KeyV": ebiten.KeyV, "KeyW": ebiten.KeyW, "KeyX": ebiten.KeyX,
		"KeyY": ebiten.KeyY, "KeyZ": ebiten.KeyZ,

		// Numbers
		"Key0": ebiten.Key0, "Key1": ebiten.Key1, "Key2": ebiten.Key2, "Key3": ebiten.Key3,
		"Key4": ebiten.Key4, "Key5": ebiten.Key5, "Key6": ebiten.Key6, "Key7": ebiten.Key7,
		"Key8": ebiten.Key8, "Key9": ebiten.Key9,

		// Special keys
		"Space":      ebiten.KeySpace,
		"Backspace":  ebiten.KeyBackspace,
		"Enter":      ebiten.KeyEnter,
		"Escape":     ebiten.KeyEscape,
		"Tab":        ebiten.KeyTab,
		"Home":       ebiten.KeyHome,
		"End":        ebiten.KeyEnd,
		"PageUp":     ebiten.KeyPageUp,
		"PageDown":   ebiten.KeyPageDown,
		"ArrowUp":    ebiten.KeyArrowUp,
		"ArrowDown":  ebiten.KeyArrowDown,
		"ArrowLeft":  ebiten.KeyArrowLeft,
		"ArrowRight": ebiten.KeyArrowRight,

		// Punctuation
		"Comma":     ebiten.KeyComma,
		"Period":    ebiten.KeyPeriod,
		"Slash":     ebiten.KeySlash,
		"Semicolon": ebiten.KeySemicolon,
		"Quote":     ebiten.KeyQuote,
		"Minus":     ebiten.KeyMinus,
		"Equal":     ebiten.KeyEqual,

		// Numpad
		"Numpad0": ebiten.KeyNumpad0, "Numpad1": ebiten.KeyNumpad1, "Numpad2": ebiten.KeyNumpad2,
		"Numpad3": ebiten.KeyNumpad3, "Numpad4": ebiten.KeyNumpad4, "Numpad5": ebiten.KeyNumpad5,
		"Numpad6": ebiten.KeyNumpad6, "Numpad7": ebiten.KeyNumpad7, "Numpad8": ebiten.KeyNumpad8,
		"Numpad9": ebiten.KeyNumpad9, "NumpadEnter": ebiten.KeyNumpadEnter,
	}
}

// Modifiers is the set of modifier keys a binding requires
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// parseModifiers reads the "Shift+Ctrl+" prefix of a binding string
func parseModifiers(parts []string) Modifiers {
	var m Modifiers
	for _, part := range parts {
		switch strings.ToLower(part) {
		case "shift":
			m.Shift = true
		case "ctrl":
			m.Ctrl = true
		case "alt":
			m.Alt = true
		}
	}
	return m
}

// matches requires the exact modifier set, so "KeyB" does not fire on Shift+KeyB
func (m Modifiers) matches(pressed func(ebiten.Key) bool) bool {
	return m.Shift == pressed(ebiten.KeyShift) &&
		m.Ctrl == pressed(ebiten.KeyControl) &&
		m.Alt == pressed(ebiten.KeyAlt)
}

// KeyCombination represents a key with optional modifiers
type KeyCombination struct {
	Key ebiten.Key
	Modifiers
}

// ParseKeyString parses a key string like "Shift+KeyB" into a KeyCombination
func ParseKeyString(keyStr string) (KeyCombination, bool) {
	parts := strings.Split(keyStr, "+")
	key, exists := getKeyMapping()[parts[len(parts)-1]]
	if !exists {
		return KeyCombination{}, false
	}
	return KeyCombination{Key: key, Modifiers: parseModifiers(parts[:len(parts)-1])}, true
}

type keyBinding struct {
	action string
	combo  KeyCombination
}

// KeybindingManager turns key presses into action names
type KeybindingManager struct {
	keybindings map[string][]string
	bindings    []keyBinding
}

// NewKeybindingManager creates a new KeybindingManager. Invalid key strings
// are skipped; config loading already reported them.
func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	km := &KeybindingManager{}
	km.UpdateKeybindings(keybindings)
	return km
}

// Triggered returns the actions whose key combination was pressed this
// frame, in the order actions are defined.
func (km *KeybindingManager) Triggered(ks KeyState) []string {
	var actions []string
	for _, b := range km.bindings {
		if !ks.JustPressed(b.combo.Key) || !b.combo.matches(ks.Pressed) {
			continue
		}
		if n := len(actions); n > 0 && actions[n-1] == b.action {
			continue
		}
		actions = append(actions, b.action)
	}
	return actions
}

// GetKeybindings returns the current keybindings map (for display purposes)
func (km *KeybindingManager) GetKeybindings() map[string][]string {
	return km.keybindings
}

// UpdateKeybindings replaces the keybindings map
func (km *KeybindingManager) UpdateKeybindings(keybindings map[string][]string) {
	km.keybindings = keybindings
	km.bindings = km.bindings[:0]
	for _, name := range actionOrder(keybindings) {
		for _, keyStr := range keybindings[name] {
			if combo, ok := ParseKeyString(keyStr); ok {
				km.bindings = append(km.bindings, keyBinding{action: name, combo: combo})
			}
		}
	}
}

// actionOrder lists the bound actions in definition order
func actionOrder(bindings map[string][]string) []string {
	order := make([]string, 0, len(bindings))
	for _, def := range actionDefinitions {
		if _, ok := bindings[def.Name]; ok {
			order = append(order, def.Name)
		}
	}
	return order
}
