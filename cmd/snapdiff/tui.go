package main

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/go-drift/diffable/pkg/datasource"
	"github.com/go-drift/diffable/pkg/diff"
	"github.com/go-drift/diffable/pkg/snapshot"
)

type mark int

const (
	markNone mark = iota
	markInserted
	markMoved
	markReloaded
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	insertedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	movedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	reloadedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	detachedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// refreshMsg tells the TUI that the render target has new state to show.
type refreshMsg struct{}

// listTarget adapts a bubbletea view to the datasource render target
// contract: it replays each stage, remembers which rows the last changeset
// touched so the view can highlight them, and wakes the program up.
type listTarget struct {
	mu        sync.Mutex
	sections  []snapshot.Section[string, string]
	itemMarks map[string]mark
	secMarks  map[string]mark
	stages    int
	notify    func()
}

func newListTarget() *listTarget {
	return &listTarget{
		itemMarks: map[string]mark{},
		secMarks:  map[string]mark{},
	}
}

func (t *listTarget) Apply(changeset diff.StagedChangeset[string, string], setData func([]snapshot.Section[string, string])) {
	t.mu.Lock()
	t.itemMarks = map[string]mark{}
	t.secMarks = map[string]mark{}
	for _, stage := range changeset {
		if setData != nil {
			setData(stage.Sections)
		}
		for _, p := range stage.ItemInserts {
			t.itemMarks[stage.Sections[p.Section].Items[p.Item].ID] = markInserted
		}
		for _, mv := range stage.ItemMoves {
			t.itemMarks[stage.Sections[mv.To.Section].Items[mv.To.Item].ID] = markMoved
		}
		for _, p := range stage.ItemReloads {
			t.itemMarks[stage.Sections[p.Section].Items[p.Item].ID] = markReloaded
		}
		for _, si := range stage.SectionInserts {
			t.secMarks[stage.Sections[si].ID] = markInserted
		}
		for _, mv := range stage.SectionMoves {
			t.secMarks[stage.Sections[mv.To].ID] = markMoved
		}
		for _, si := range stage.SectionReloads {
			t.secMarks[stage.Sections[si].ID] = markReloaded
		}
		t.sections = snapshot.CloneSections(stage.Sections)
		t.stages++
	}
	notify := t.notify
	t.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (t *listTarget) state() ([]snapshot.Section[string, string], map[string]mark, map[string]mark, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	items := make(map[string]mark, len(t.itemMarks))
	for k, v := range t.itemMarks {
		items[k] = v
	}
	secs := make(map[string]mark, len(t.secMarks))
	for k, v := range t.secMarks {
		secs[k] = v
	}
	return snapshot.CloneSections(t.sections), secs, items, t.stages
}

type model struct {
	scenario *Scenario
	core     *datasource.Core[string, string]
	target   *listTarget
	step     int // next step to apply
	detached bool
	status   string
}

func newModel(sc *Scenario, core *datasource.Core[string, string], target *listTarget) model {
	return model{
		scenario: sc,
		core:     core,
		target:   target,
		status:   "press n to apply the first step",
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "n":
			if m.step >= len(m.scenario.Steps) {
				m.status = "scenario finished"
				return m, nil
			}
			step := m.scenario.Steps[m.step]
			m.step++
			m.status = fmt.Sprintf("applied %q", step.Name)
			m.core.Apply(step.Snapshot(), nil)
		case "a":
			snap := m.core.Snapshot()
			if snap.NumberOfSections() == 0 {
				m.status = "no sections to append to"
				return m, nil
			}
			id := uuid.NewString()[:8]
			snap.AppendItems(id)
			m.status = fmt.Sprintf("appended %s", id)
			m.core.Apply(snap, nil)
		case "d":
			if m.detached {
				m.core.Attach(m.target)
				m.status = "render target attached"
			} else {
				m.core.Detach()
				m.status = "render target detached: applies now skip diffing"
			}
			m.detached = !m.detached
		}
	}
	return m, nil
}

func (m model) View() string {
	sections, secMarks, itemMarks, stages := m.target.state()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("snapdiff: %s", m.scenario.Name)))
	b.WriteString(fmt.Sprintf("  [%d/%d steps, %d stages replayed]\n", m.step, len(m.scenario.Steps), stages))
	if m.detached {
		b.WriteString(detachedStyle.Render("DETACHED") + "\n")
	}
	b.WriteString("\n")

	for _, sec := range sections {
		label := "§ " + sec.ID
		switch secMarks[sec.ID] {
		case markInserted:
			label = insertedStyle.Render(label + " (new)")
		case markMoved:
			label = movedStyle.Render(label + " (moved)")
		case markReloaded:
			label = reloadedStyle.Render(label + " (reloaded)")
		default:
			label = sectionStyle.Render(label)
		}
		b.WriteString(label + "\n")
		for _, it := range sec.Items {
			row := "  - " + it.ID
			switch itemMarks[it.ID] {
			case markInserted:
				row = insertedStyle.Render(row + " (new)")
			case markMoved:
				row = movedStyle.Render(row + " (moved)")
			case markReloaded:
				row = reloadedStyle.Render(row + " (reloaded)")
			}
			b.WriteString(row + "\n")
		}
	}

	b.WriteString("\n" + m.status + "\n")
	b.WriteString(helpStyle.Render("n: next step  a: append row  d: detach/attach  q: quit") + "\n")
	return b.String()
}
