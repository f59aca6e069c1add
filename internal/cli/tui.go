package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mapvis/pkg/pipeline"
	"github.com/matzehuels/mapvis/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorValue)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorFail)
)

// headerLines is the number of lines View draws above the display.
const headerLines = 5

// =============================================================================
// InspectModel - Interactive series inspection
// =============================================================================

// InspectModel is the bubbletea model for stepping through the dates of a
// display's series charts. Moving the cursor clicks the chart at the
// highlighted date, which swaps the panel's layer.
type InspectModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	display *pipeline.Display
	opts    pipeline.Options

	Panels []int
	Panel  int // index into Panels
	Dates  []time.Time
	Cursor int
	Offset int

	Width  int
	Height int

	rendered string
	err      error
}

// NewInspectModel creates a model over the inspectors of d.
func NewInspectModel(ctx context.Context, runner *pipeline.Runner, d *pipeline.Display, opts pipeline.Options) InspectModel {
	m := InspectModel{
		ctx:     ctx,
		runner:  runner,
		display: d,
		opts:    opts,
		Panels:  d.Panels(),
		Cursor:  -1,
		Width:   opts.Columns,
		Height:  opts.Rows + headerLines,
	}
	m.loadDates()
	m.render()
	return m
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
				m.click()
			} else if m.Cursor < 0 && len(m.Dates) > 0 {
				m.Cursor = 0
				m.click()
			}
		case "right", "l":
			if m.Cursor < len(m.Dates)-1 {
				m.Cursor++
				m.click()
			}
		case "home":
			if len(m.Dates) > 0 {
				m.Cursor = 0
				m.click()
			}
		case "end":
			if len(m.Dates) > 0 {
				m.Cursor = len(m.Dates) - 1
				m.click()
			}
		case "tab":
			if len(m.Panels) > 1 {
				m.Panel = (m.Panel + 1) % len(m.Panels)
				m.loadDates()
				m.render()
			}
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.render()
	}
	return m, nil
}

// loadDates switches the date strip to the current panel and puts the
// cursor on its selected date, if any.
func (m *InspectModel) loadDates() {
	m.Dates, m.Cursor, m.Offset = nil, -1, 0
	if len(m.Panels) == 0 {
		return
	}
	in := m.display.Inspectors[m.Panels[m.Panel]]
	m.Dates = in.Dates()
	sel := in.Selected()
	for i, d := range m.Dates {
		if d.Equal(sel) {
			m.Cursor = i
		}
	}
}

func (m *InspectModel) click() {
	panel := m.Panels[m.Panel]
	m.err = m.display.Click(m.ctx, panel, m.Dates[m.Cursor])
	m.render()
}

func (m *InspectModel) render() {
	opts := m.opts
	opts.Columns = max(m.Width, 20)
	opts.Rows = max(m.Height-headerLines, 5)
	data, _, err := m.runner.Render(m.ctx, m.display, pipeline.FormatTXT, opts)
	if err != nil {
		m.err = err
		return
	}
	m.rendered = string(data)
}

func (m InspectModel) View() string {
	var b strings.Builder

	title := "Inspect"
	if name := m.display.Scene.Name; name != "" {
		title += " · " + name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ date  tab panel  q quit"))
	b.WriteString("\n")

	switch {
	case len(m.Panels) == 0:
		b.WriteString(listDimStyle.Render("no series charts in this scene"))
	default:
		b.WriteString(listNormalStyle.Render(fmt.Sprintf("panel %d  ", m.Panels[m.Panel])))
		b.WriteString(m.dateStrip())
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(listErrorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.rendered)

	return b.String()
}

// dateStrip shows the dates around the cursor that fit the window width.
func (m InspectModel) dateStrip() string {
	const cell = len(scene.DateLayout) + 1
	visible := max((m.Width-10)/cell, 1)
	cursor := max(m.Cursor, 0)
	offset := m.Offset
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	end := min(offset+visible, len(m.Dates))

	parts := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		d := m.Dates[i].Format(scene.DateLayout)
		if i == m.Cursor {
			parts = append(parts, listSelectedStyle.Render(d))
		} else {
			parts = append(parts, listDimStyle.Render(d))
		}
	}
	strip := strings.Join(parts, " ")
	if offset > 0 {
		strip = listDimStyle.Render("‹ ") + strip
	}
	if end < len(m.Dates) {
		strip += listDimStyle.Render(" ›")
	}
	return strip
}
