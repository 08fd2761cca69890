// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/pgdrift/pgdrift/internal/command/si"
	"github.com/pgdrift/pgdrift/internal/config"
	"github.com/pgdrift/pgdrift/internal/meta"
	"github.com/pgdrift/pgdrift/internal/schema"
	"github.com/pgdrift/pgdrift/internal/source"
)

// siCommandAction is the action handler for the "si" subcommand. It loads one
// snapshot and launches an interactive inspector to explore its tables and
// columns.
func siCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "si"

	spec, err := sqResolveSpec(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if sv := cmd.Int("sv"); sv > 0 {
		spec = fmt.Sprintf("%s~%d", spec, sv)
	}

	loader := source.NewLoader(source.NewCache(), cmd)
	snap, err := loader.Load(ctx, spec)
	if err != nil {
		return err
	}

	// Run interactive console
	return runSiInteractiveConsole(snap)
}

// siModel represents the Bubble Tea model for si command
type siModel struct {
	input          textinput.Model
	history        []string // Full history for navigation (includes file history)
	sessionHistory []string // Only commands from this session (matches with outputs)
	histIndex      int
	output         []string
	snap           *schema.Snapshot
}

func initialSiModel(snap *schema.Snapshot) siModel {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink) // Set to blinking vertical line

	// Load history from file
	history := loadSiHistory(getSiHistoryFile())

	// Add initial welcome message
	var output []string
	output = append(output, fmt.Sprintf("Snapshot inspector loaded. %d tables found.", snap.Len()))
	output = append(output, "Type 'help' for syntax, 'exit' or Ctrl+C to quit.")

	return siModel{
		input:          ti,
		history:        history,
		sessionHistory: []string{}, // Empty for new session
		histIndex:      -1,
		output:         output,
		snap:           snap,
	}
}

func (m siModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m siModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			entry := m.input.Value()
			if strings.TrimSpace(entry) != "" {
				// Handle special commands
				if entry == "exit" || entry == "quit" {
					return m, tea.Quit
				}
				if entry == "help" {
					m.history = append(m.history, entry)
					m.sessionHistory = append(m.sessionHistory, entry)
					m.histIndex = -1
					m.output = append(m.output, getSiHelp())
					saveSiHistory(getSiHistoryFile(), m.history)
					m.input.SetValue("")
					return m, nil
				}

				// Process query and get output
				result := processSiQuery(m.snap, entry)

				m.history = append(m.history, entry)
				m.sessionHistory = append(m.sessionHistory, entry)
				m.histIndex = -1
				m.output = append(m.output, result)
				saveSiHistory(getSiHistoryFile(), m.history)
			}
			m.input.SetValue("")
			return m, nil

		case "up":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex == -1 {
				m.histIndex = len(m.history) - 1
			} else if m.histIndex > 0 {
				m.histIndex--
			}
			m.input.SetValue(m.history[m.histIndex])
			m.input.CursorEnd()
			return m, nil

		case "down":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex >= 0 && m.histIndex < len(m.history)-1 {
				m.histIndex++
				m.input.SetValue(m.history[m.histIndex])
				m.input.CursorEnd()
			} else {
				m.histIndex = -1
				m.input.SetValue("")
			}
			return m, nil

		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m siModel) View() string {
	// PostgreSQL blue style for the prompt
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#336791"))

	var lines []string

	// Add the initial welcome messages first
	if len(m.output) >= 2 {
		lines = append(lines, m.output[0])
		lines = append(lines, m.output[1])
	}

	// Add each command from THIS SESSION with its corresponding output
	for i := 0; i < len(m.sessionHistory); i++ {
		// Show the command that was entered in this session
		lines = append(lines, promptStyle.Render("> ")+m.sessionHistory[i])

		// Show the corresponding output (accounting for the 2 initial messages)
		if (i + 2) < len(m.output) {
			lines = append(lines, m.output[i+2])
		}
	}

	// Add current prompt and input
	lines = append(lines, promptStyle.Render("> ")+m.input.View())

	return strings.Join(lines, "\n")
}

// getSiHelp returns the help text as a string
func getSiHelp() string {
	return `Query syntax:
  tables                           - List all table names
  TABLE                            - List the columns of a table
  TABLE.COLUMN                     - Show one column's type and nullability
  .TABLE                           - Raw JSON descriptors of a table
  find SUBSTR                      - Search table and column names
  hungarian [TABLE]                - Columns embedding their type in their name

  Navigation:
     ↑/↓ arrows                    - Navigate command history
     Ctrl+C                        - Exit

  Examples:
     users                         - Columns of the users table
     users.email                   - One column of the users table
     find _id                      - Every table/column containing _id`
}

// getSiHistoryFile returns the path to the si history file
func getSiHistoryFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pgdrift_si_history"
	}
	return filepath.Join(homeDir, ".pgdrift_si_history")
}

func loadSiHistory(filename string) []string {
	var history []string

	file, err := os.Open(filename)
	if err != nil {
		return history // Return empty history if file doesn't exist
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			history = append(history, line)
		}
	}

	return history
}

func processSiQuery(snap *schema.Snapshot, query string) string {
	output := si.ProcessQuery(snap, query)
	if output == "" {
		return "No results found."
	}
	return strings.TrimSuffix(output, "\n")
}

func runSiInteractiveConsole(snap *schema.Snapshot) error {
	p := tea.NewProgram(initialSiModel(snap))
	_, err := p.Run()
	return err
}

func saveSiHistory(filename string, history []string) {
	// Keep only the last 1000 commands
	maxHistory := 1000
	start := 0
	if len(history) > maxHistory {
		start = len(history) - maxHistory
	}

	file, err := os.Create(filename)
	if err != nil {
		return // Silently fail if we can't save history
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i := start; i < len(history); i++ {
		fmt.Fprintln(writer, history[i])
	}
	writer.Flush()
}

// siCommandBuilder constructs the cli.Command for "si" and wires up metadata,
// flags, and the action handler.
func siCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "si",
		Hidden:    true,
		Usage:     "snapshot inspector",
		UsageText: "pgdrift si [SOURCE] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			passphraseFlag,
			regionFlag,
			svFlag,
		}, NewGlobalFlags("si", meta.Config.Source)...),
		Action: siCommandAction,
	}
}
