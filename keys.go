package main

import "github.com/charmbracelet/bubbles/key"

// ---------------------------------------------------------------------------
// Key bindings
// ---------------------------------------------------------------------------

type keyMap struct {
	Capture  key.Binding
	Gallery  key.Binding
	Facing   key.Binding
	Torch    key.Binding
	NewPhoto key.Binding
	Save     key.Binding
	Retry    key.Binding
	UpDown   key.Binding
	Enter    key.Binding
	Close    key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Capture:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "shoot")),
		Gallery:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gallery")),
		Facing:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "flip camera")),
		Torch:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "torch")),
		NewPhoto: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new photo")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save meme")),
		Retry:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		UpDown:   key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "select")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) gateHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Quit}
}

func (k keyMap) cameraHelp() []key.Binding {
	return []key.Binding{k.Capture, k.Gallery, k.Facing, k.Torch, k.Quit}
}

func (k keyMap) previewHelp() []key.Binding {
	return []key.Binding{k.Retry, k.NewPhoto, k.Quit}
}

func (k keyMap) editingHelp() []key.Binding {
	return []key.Binding{k.Save, k.NewPhoto, k.Quit}
}

func (k keyMap) pickerHelp() []key.Binding {
	return []key.Binding{k.Enter, k.UpDown, k.Close, k.Quit}
}
