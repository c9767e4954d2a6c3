package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ---------------------------------------------------------------------------
// Gallery-import picker (implements list.Item)
// ---------------------------------------------------------------------------

type imageItem struct {
	name string
}

func (i imageItem) Title() string       { return i.name }
func (i imageItem) Description() string { return "" }
func (i imageItem) FilterValue() string { return i.name }

type imageItemDelegate struct{}

func (d imageItemDelegate) Height() int  { return 1 }
func (d imageItemDelegate) Spacing() int { return 0 }
func (d imageItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}
func (d imageItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(imageItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = cursorStyle.Render("> ")
	}
	line := fmt.Sprintf("%s%s", prefix, entry.name)
	fmt.Fprint(w, padRight(line, m.Width()))
}

// updatePicker handles keys while the import modal is open. Esc is the
// cancellation path; a selection adopts the image and starts captioning.
func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showPicker = false
		return m, nil
	case "ctrl+c", "q":
		return m, tea.Quit
	case "enter":
		item, ok := m.imageList.SelectedItem().(imageItem)
		if !ok || item.name == "" {
			m.setStatus("No image selected.")
			return m, nil
		}
		next, err := transition(m.state, eventImported)
		if err != nil {
			m.setError(err.Error())
			m.showPicker = false
			return m, nil
		}
		m.showPicker = false
		m.state = next
		gen := m.newCycle()
		m.clearCapture()
		m.imagePath = filepath.Join(m.cfg.Library.PicturesDir, item.name)
		m.captioning = true
		m.setStatus("Generating caption...")
		return m, m.captionCmd(gen)
	}

	var cmd tea.Cmd
	m.imageList, cmd = m.imageList.Update(msg)
	return m, cmd
}

func (m *model) resizeList() {
	if m.width == 0 || m.height == 0 {
		return
	}
	listWidth := min(70, m.width-6)
	if listWidth < 40 {
		listWidth = 40
	}
	m.imageList.SetWidth(listWidth)
	m.imageList.SetHeight(min(14, m.height-8))
}

func (m model) pickerView() string {
	if !m.pickerReady {
		return "Scanning pictures..."
	}
	if len(m.imageList.Items()) == 0 {
		return "No images found in " + m.cfg.Library.PicturesDir
	}
	return m.imageList.View()
}
