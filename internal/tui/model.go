// Package tui implements the interactive result list and rule picker: a
// hand-rolled bubbletea.Model styled with lipgloss, in the shape the one
// bubbletea example in the reference corpus uses (a cursor index into a
// slice, rendered by a manual strings.Builder view) rather than reaching
// for bubbles/list's delegate machinery.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/projclean/projclean/internal/events"
	"github.com/projclean/projclean/internal/humanize"
	"github.com/projclean/projclean/internal/purge"
)

// tickInterval matches the original's poll cadence for UI refresh and
// event-channel draining.
const tickInterval = 100 * time.Millisecond

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type sortMode int

const (
	sortByPath sortMode = iota
	sortBySize
)

// entry is one row of the result list. It wraps events.PathItem with the
// mutable lifecycle state the consumer owns, per spec.md's "PathItem state
// transitions: owned by the consumer" rule.
type entry struct {
	events.PathItem
}

type model struct {
	events <-chan events.Event
	cancel *events.CancelFlag
	pool   *purge.Pool

	byPath map[string]*entry
	order  []*entry
	sort   sortMode
	cursor int

	spinnerIndex int
	searchDone   bool
	totalSize    int64
	savedSize    int64
	lastError    string
}

type eventMsg struct{ events.Event }
type tickMsg time.Time

// Run launches the interactive result list, draining ch until the user
// quits. Once p.Run returns, by any path, cancel.Abandon() closes
// cancel.Done(); the walker and the delete pool both select on that channel
// around their event sends, so a producer already blocked on a now-
// abandoned channel wakes up and exits instead of leaking, per spec.md §5's
// cancellation semantics.
func Run(ch <-chan events.Event, cancel *events.CancelFlag, pool *purge.Pool) error {
	m := &model{
		events: ch,
		cancel: cancel,
		pool:   pool,
		byPath: make(map[string]*entry),
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	cancel.Abandon()
	return err
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(listenForEvent(m.events), tickCmd())
}

func listenForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg{e}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.handleEvent(msg.Event)
		return m, listenForEvent(m.events)

	case tickMsg:
		m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
		return m, tickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.order)-1 {
				m.cursor++
			}
		case " ":
			m.deleteSelected()
		case "f4":
			m.deleteAll()
		case "f7":
			m.setSort(sortByPath)
		case "f8":
			m.setSort(sortBySize)
		case "esc", "ctrl+c":
			m.cancel.Cancel()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *model) handleEvent(e events.Event) {
	if item, ok := e.IsAddPath(); ok {
		ent := &entry{PathItem: item}
		m.byPath[item.AbsPath] = ent
		m.order = append(m.order, ent)
		if item.Size != nil {
			m.totalSize += *item.Size
		}
		m.resort()
		return
	}
	if path, ok := e.IsPathDeleted(); ok {
		if ent, found := m.byPath[path]; found {
			ent.State = events.Deleted
			if ent.Size != nil {
				m.savedSize += *ent.Size
			}
		}
		return
	}
	if msg, ok := e.IsError(); ok {
		m.lastError = msg
		return
	}
	if e.IsSearchDone() {
		m.searchDone = true
	}
}

func (m *model) deleteSelected() {
	if m.cursor < 0 || m.cursor >= len(m.order) {
		return
	}
	m.dispatch(m.order[m.cursor])
}

func (m *model) deleteAll() {
	var batch []events.PathItem
	for _, ent := range m.order {
		if ent.State == events.Normal && ent.Size != nil {
			batch = append(batch, ent.PathItem)
			ent.State = events.Deleting
		}
	}
	if len(batch) > 0 {
		m.pool.DispatchAll(batch)
	}
}

func (m *model) dispatch(ent *entry) {
	if ent.State != events.Normal || ent.Size == nil {
		return
	}
	m.pool.Dispatch(ent.PathItem)
	ent.State = events.Deleting
}

func (m *model) setSort(s sortMode) {
	m.sort = s
	m.resort()
}

func (m *model) resort() {
	switch m.sort {
	case sortBySize:
		sort.SliceStable(m.order, func(i, j int) bool {
			return sizeOf(m.order[i]) > sizeOf(m.order[j])
		})
	default:
		sort.SliceStable(m.order, func(i, j int) bool {
			return m.order[i].RelPath < m.order[j].RelPath
		})
	}
}

func sizeOf(e *entry) int64 {
	if e.Size == nil {
		return -1
	}
	return *e.Size
}

func (m *model) View() string {
	var b strings.Builder

	for i, ent := range m.order {
		b.WriteString(renderRow(ent, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString(m.statusBar())
	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(m.lastError))
	}
	return b.String()
}

func renderRow(ent *entry, selected bool) string {
	sizeText := "[?]"
	if ent.Size != nil {
		sizeText = fmt.Sprintf("[%s]", humanize.Bytes(uint64(*ent.Size)))
	}

	var stateGlyph string
	switch ent.State {
	case events.Deleting:
		stateGlyph = "⠋ "
	case events.Deleted:
		stateGlyph = lipgloss.NewStyle().Faint(true).Render("✘ ")
	}

	line := fmt.Sprintf("%s%s - %s", stateGlyph, ent.RelPath, sizeText)
	if selected {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Render(line)
	}
	return line
}

func (m *model) statusBar() string {
	status := spinnerFrames[m.spinnerIndex]
	if m.searchDone {
		status = "✔"
	}
	return fmt.Sprintf("%s total %s  reclaimed %s  (↑/↓ move · space delete · F4 delete all · F7/F8 sort · esc quit)",
		status, humanize.Bytes(uint64(m.totalSize)), humanize.Bytes(uint64(m.savedSize)))
}
