package tui

import (
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// addForm collects a manually entered point as two decimal fields.
type addForm struct {
	active bool
	focus  int
	inputs [2]textinput.Model
}

func newAddForm() addForm {
	var f addForm
	for i, label := range []string{"latitude", "longitude"} {
		ti := textinput.New()
		ti.Placeholder = label + " (decimal degrees)"
		ti.Prompt = label[:3] + " › "
		ti.CharLimit = 32
		ti.Width = 28
		f.inputs[i] = ti
	}
	return f
}

func (f *addForm) open() tea.Cmd {
	f.active = true
	f.focus = 0
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	return f.inputs[0].Focus()
}

func (f *addForm) close() {
	f.active = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *addForm) toggleFocus() tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = 1 - f.focus
	return f.inputs[f.focus].Focus()
}

func (f addForm) values() (lat, lng string) {
	return f.inputs[0].Value(), f.inputs[1].Value()
}

func (f addForm) update(msg tea.Msg) (addForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f addForm) view() string {
	return strings.Join([]string{
		titleStyle.Render("Add point"),
		f.inputs[0].View(),
		f.inputs[1].View(),
		dimStyle.Render("tab switch  enter add  esc cancel"),
	}, "\n")
}
