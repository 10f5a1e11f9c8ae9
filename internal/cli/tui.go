package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/familytree/pkg/family"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	detailPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// PersonListModel - Interactive family browser
// =============================================================================

// PersonListModel is the bubbletea model behind the inspect command. It lists
// every person in roster order and shows the relatives of the one under the
// cursor.
type PersonListModel struct {
	Persons []*family.Person
	Cursor  int
	Height  int
	Offset  int

	resolver *family.Resolver
	index    map[int]int // person id -> position in Persons
}

// NewPersonListModel creates a browser over a built family.
func NewPersonListModel(f *family.Family) PersonListModel {
	persons := f.Persons()
	index := make(map[int]int, len(persons))
	for i, p := range persons {
		index[p.ID] = i
	}
	return PersonListModel{
		Persons:  persons,
		Height:   15,
		resolver: family.NewResolver(f),
		index:    index,
	}
}

func (m PersonListModel) Init() tea.Cmd {
	return nil
}

func (m PersonListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.moveTo(m.Cursor - 1)
		case "down", "j":
			m = m.moveTo(m.Cursor + 1)
		case "pgup":
			m = m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m = m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m = m.moveTo(0)
		case "end", "G":
			m = m.moveTo(len(m.Persons) - 1)
		case "f":
			m = m.jumpTo(m.current().Father())
		case "m":
			m = m.jumpTo(m.current().Mother())
		case "s":
			if sp := m.current().Spouses(); len(sp) > 0 {
				m = m.jumpTo(sp[0])
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m = m.moveTo(m.Cursor)
	}
	return m, nil
}

func (m PersonListModel) current() *family.Person {
	if len(m.Persons) == 0 {
		return &family.Person{}
	}
	return m.Persons[m.Cursor]
}

// moveTo places the cursor at i, clamped to the list, and scrolls so the
// cursor stays visible.
func (m PersonListModel) moveTo(i int) PersonListModel {
	i = min(max(i, 0), max(len(m.Persons)-1, 0))
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m PersonListModel) jumpTo(p *family.Person) PersonListModel {
	if p == nil {
		return m
	}
	if i, ok := m.index[p.ID]; ok {
		return m.moveTo(i)
	}
	return m
}

func (m PersonListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Family"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  f father  m mother  s spouse  q quit"))
	b.WriteString("\n\n")

	if len(m.Persons) == 0 {
		b.WriteString(listDimStyle.Render("  no persons"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Persons))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		p := m.Persons[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(p.ID), p.Name, p.Sex.String(), strconv.Itoa(len(p.Children()))})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Sex", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	list := t.Render() + "\n" + listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Persons)))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", m.detailView()))

	return b.String()
}

// detailView renders the relatives of the person under the cursor.
func (m PersonListModel) detailView() string {
	p := m.current()
	h := m.resolver.Of(p)

	lines := []string{
		StyleTitle.Render(fmt.Sprintf("%s (#%d)", p.Name, p.ID)),
		"",
		detailLine("Father", personNames(p.Father())),
		detailLine("Mother", personNames(p.Mother())),
		detailLine("Spouses", personNames(p.Spouses()...)),
		detailLine("Children", personNames(p.Children()...)),
		detailLine("Siblings", personNames(p.Siblings()...)),
		detailLine("Half-siblings", personNames(p.HalfSiblings()...)),
		detailLine("Household", fmt.Sprintf("%s (%s)", h.Key, h.Kind())),
	}
	return detailPaneStyle.Render(strings.Join(lines, "\n"))
}

func detailLine(key, value string) string {
	return detailKeyStyle.Render(key) + " " + StyleValue.Render(value)
}

// personNames formats persons as "Name #id" separated by commas, or a dash when
// there are none. Nil entries are skipped.
func personNames(ps ...*family.Person) string {
	var names []string
	for _, p := range ps {
		if p != nil {
			names = append(names, fmt.Sprintf("%s #%d", p.Name, p.ID))
		}
	}
	if len(names) == 0 {
		return "—"
	}
	return strings.Join(names, ", ")
}
