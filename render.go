package main

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Bubble Tea interface: View
// ---------------------------------------------------------------------------

func (m model) View() string {
	header := titleStyle.Render(appName) + hintStyle.Render("  ·  "+m.state.String())

	var body string
	switch m.state {
	case stateGate:
		body = m.gateView()
	case stateCamera:
		body = m.cameraView()
	default:
		body = m.previewView()
	}

	main := header + "\n\n" + body
	statusLine := m.renderStatus()
	footer := m.renderFooter(renderHelp(m.footerBindings()))

	if m.showPicker {
		return m.composeModal(main, statusLine, footer)
	}
	return m.placeWithFooter(main, statusLine, footer)
}

// ---------------------------------------------------------------------------
// Per-state views
// ---------------------------------------------------------------------------

func (m model) gateView() string {
	lines := []string{
		permissionLine("Camera access", m.camErr),
		permissionLine("Gallery access", m.galleryErr),
		"",
	}
	if m.probing {
		lines = append(lines, hintStyle.Render("Checking..."))
	} else {
		lines = append(lines, hintStyle.Render("Fix the failing item, then press r to check again."))
	}
	return m.renderSection("Permissions", strings.Join(lines, "\n"))
}

func permissionLine(label string, err error) string {
	if err != nil {
		return labelStyle.Render(label+":  ") + badStyle.Render("✗ "+err.Error())
	}
	return labelStyle.Render(label+":  ") + okStyle.Render("✓ granted")
}

func (m model) cameraView() string {
	torch := "off"
	torchRender := hintStyle.Render
	if m.torch {
		torch = "on"
		torchRender = torchStyle.Render
	}
	lines := []string{
		liveStyle.Render("● LIVE") + labelStyle.Render("  "+m.facing.String()+" camera") +
			torchRender("  torch "+torch),
		"",
		hintStyle.Render("space  shoot a photo"),
		hintStyle.Render("g      import from pictures"),
		hintStyle.Render("f      flip front/back"),
		hintStyle.Render("t      toggle torch"),
	}
	return m.renderSection("Camera", strings.Join(lines, "\n"))
}

func (m model) previewView() string {
	width := m.sectionContentWidth()
	var lines []string
	lines = append(lines, labelStyle.Render("Photo: ")+truncate(filepath.Base(m.imagePath), width-8))
	lines = append(lines, "")

	switch {
	case m.captioning:
		lines = append(lines, hintStyle.Render("Generating caption..."))
	case m.hasCaption:
		lines = append(lines, memeLine(m.meme.Top, width))
		lines = append(lines, "")
		lines = append(lines, hintStyle.Render(centerText("[ photo ]", width)))
		lines = append(lines, "")
		lines = append(lines, memeLine(m.meme.Bottom, width))
	default:
		lines = append(lines, hintStyle.Render("No caption yet."))
	}

	if m.saving {
		lines = append(lines, "", hintStyle.Render("Saving..."))
	}
	return m.renderSection("Meme", strings.Join(lines, "\n"))
}

// memeLine renders one caption line the way the composite draws it:
// uppercased, centered.
func memeLine(text string, width int) string {
	return memeStyle.Render(centerText(strings.ToUpper(text), width))
}

func centerText(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// ---------------------------------------------------------------------------
// Layout helpers
// ---------------------------------------------------------------------------

func (m model) renderSection(title string, content string) string {
	header := titleStyle.Render(title)
	section := header + "\n" + sectionStyle.Width(m.sectionWidth()).Render(content)
	if m.width == 0 {
		return section
	}
	return lipgloss.Place(m.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}

func (m model) sectionWidth() int {
	if m.width == 0 {
		return 72
	}
	width := m.width - 4
	if width < 20 {
		width = m.width
	}
	return width
}

func (m model) sectionContentWidth() int {
	width := m.sectionWidth() - sectionStyle.GetHorizontalFrameSize()
	if width < 20 {
		return 20
	}
	return width
}

func (m model) footerBindings() []key.Binding {
	if m.showPicker {
		return m.keys.pickerHelp()
	}
	switch m.state {
	case stateGate:
		return m.keys.gateHelp()
	case stateCamera:
		return m.keys.cameraHelp()
	case statePreview:
		return m.keys.previewHelp()
	case stateEditing:
		return m.keys.editingHelp()
	}
	return nil
}

func (m model) renderStatus() string {
	text := m.status
	style := statusBarStyle
	if m.statusErr {
		style = errorBarStyle
	}
	if m.notice != "" {
		text = noticeStyle.Render(m.notice) + " " + text
	}
	if m.width == 0 {
		return style.Render(text)
	}
	flat := strings.ReplaceAll(text, "\n", " ")
	return style.Render(padRight(flat, m.width))
}

func (m model) renderFooter(text string) string {
	if m.width == 0 {
		return footerStyle.Render(text)
	}
	flat := strings.ReplaceAll(text, "\n", " ")
	return footerStyle.Render(padRight(flat, m.width))
}

func (m model) placeWithFooter(body, statusLine, footer string) string {
	if m.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := m.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	return main + "\n" + statusLine + "\n" + footer
}

func (m model) composeModal(base, statusLine, footer string) string {
	baseView := m.placeWithFooter(base, statusLine, footer)
	if m.height == 0 || m.width == 0 {
		return baseView + "\n\n" + m.pickerView()
	}
	modalContent := lipgloss.NewStyle().Width(m.imageList.Width()).Render(m.pickerView())
	modal := modalStyle.Render(modalContent)
	lines := splitLines(modal)
	modalWidth := maxLineWidth(lines)
	modalHeight := len(lines)

	targetHeight := m.height - 2
	if targetHeight < 1 {
		targetHeight = 1
	}
	x := (m.width - modalWidth) / 2
	if x < 0 {
		x = 0
	}
	y := (targetHeight - modalHeight) / 2
	if y < 0 {
		y = 0
	}
	return overlayAt(baseView, modal, x, y, m.width, targetHeight)
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, boldKey(help.Key)+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}

func boldKey(text string) string {
	if text == "" {
		return ""
	}
	return "\x1b[1m" + text + "\x1b[22m"
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
