// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tfctl/pagediff/internal/snapshot"
)

// ErrCanceled is returned when the user quits without choosing.
var ErrCanceled = errors.New("selection canceled")

// Select shows items in a terminal list and returns the want snapshots the
// user marks, in list order (newest first).
func Select(items []snapshot.Snapshot, want int, options ...tea.ProgramOption) ([]snapshot.Snapshot, error) {
	if want < 1 || want > len(items) {
		return nil, fmt.Errorf("cannot pick %d of %d snapshots", want, len(items))
	}

	p := tea.NewProgram(newModel(items, want), options...)
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	selected := m.(model).chosen()
	if len(selected) != want {
		return nil, ErrCanceled
	}
	return selected, nil
}

// Input and Output redirect the program, mostly for tests.
func Input(r io.Reader) tea.ProgramOption  { return tea.WithInput(r) }
func Output(w io.Writer) tea.ProgramOption { return tea.WithOutput(w) }

type model struct {
	items    []snapshot.Snapshot
	want     int
	cursor   int
	selected map[int]bool
	done     bool
}

func newModel(items []snapshot.Snapshot, want int) model {
	return model{items: items, want: want, selected: map[int]bool{}}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.selected = map[int]bool{}
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		if m.selected[m.cursor] {
			delete(m.selected, m.cursor)
		} else if len(m.selected) < m.want {
			m.selected[m.cursor] = true
		}
	case "enter":
		// A single pick needs no toggle.
		if m.want == 1 && len(m.selected) == 0 {
			m.selected[m.cursor] = true
		}
		if len(m.selected) == m.want {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder
	noun := "snapshot"
	if m.want > 1 {
		noun = "snapshots"
	}
	fmt.Fprintf(&sb, "Select %d %s:\n\n", m.want, noun)

	for i, s := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if m.selected[i] {
			mark = "x"
		}
		fmt.Fprintf(&sb, "%s [%s] %s %s %s\n", cursor, mark, s.ID, s.CapturedAt.Format("2006-01-02T15:04:05Z"), shortHash(s.Hash))
	}

	return sb.String() + "\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n"
}

func (m model) chosen() []snapshot.Snapshot {
	if !m.done {
		return nil
	}
	var out []snapshot.Snapshot
	for i, s := range m.items {
		if m.selected[i] {
			out = append(out, s)
		}
	}
	return out
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
