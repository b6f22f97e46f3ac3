package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/clrfp/pkg/errors"
	"github.com/matzehuels/clrfp/pkg/field"
	"github.com/matzehuels/clrfp/pkg/fingerprint"
	"github.com/matzehuels/clrfp/pkg/keys"
	"github.com/matzehuels/clrfp/pkg/palette"
	"github.com/matzehuels/clrfp/pkg/pipeline"
	"github.com/matzehuels/clrfp/pkg/render/text"
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	listErrStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// keyEntry is one row of the browser. Err is set for files that could not
// be parsed; they stay listed so the user sees why.
type keyEntry struct {
	Path string
	Info *keys.Info
	Err  error
}

func loadEntries(paths []string) []keyEntry {
	entries := make([]keyEntry, 0, len(paths))
	for _, p := range paths {
		info, err := keys.Load(p)
		entries = append(entries, keyEntry{Path: p, Info: info, Err: err})
	}
	return entries
}

// BrowseModel is the bubbletea model for stepping through key files and
// viewing their randomart side by side with the key list.
type BrowseModel struct {
	Entries []keyEntry
	Cursor  int
	Offset  int
	Height  int

	Digest fingerprint.Digest
	Mode   text.Mode
	Plain  bool
}

// NewBrowseModel creates a browser over entries.
func NewBrowseModel(entries []keyEntry, digest fingerprint.Digest, mode text.Mode) BrowseModel {
	return BrowseModel{
		Entries: entries,
		Height:  10,
		Digest:  digest,
		Mode:    mode,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "c":
			if m.Mode == text.Background {
				m.Mode = text.Foreground
			} else {
				m.Mode = text.Background
			}
		case "d":
			if m.Digest == fingerprint.MD5 {
				m.Digest = fingerprint.SHA256
			} else {
				m.Digest = fingerprint.MD5
			}
		case "p":
			m.Plain = !m.Plain
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-16, 3)
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("SSH Keys"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("↑/↓ navigate  c color (%s)  d digest (%s)  p plain  q quit", m.Mode, m.Digest)))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("no key files"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		if e.Err != nil {
			rows = append(rows, []string{cursor, filepath.Base(e.Path), "—", "—", "unreadable"})
			continue
		}
		rows = append(rows, []string{cursor, filepath.Base(e.Path), keys.TypeName(e.Info.Key), strconv.Itoa(keys.Bits(e.Info.Key)), e.Info.Comment})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Type", "Bits", "Comment").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			switch {
			case m.Entries[idx].Err != nil:
				return listDimStyle
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.art())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))
	return b.String()
}

// art renders the selected key, or the reason it cannot be rendered.
func (m BrowseModel) art() string {
	e := m.Entries[m.Cursor]
	if e.Err != nil {
		return listErrStyle.Render(errorMessage(e.Err)) + "\n"
	}
	line := e.Info.Line(m.Digest)
	fp, err := pipeline.Find(line, pipeline.InputKey)
	if err != nil {
		return listErrStyle.Render(errorMessage(err)) + "\n"
	}
	f := field.Generate(fp.Bytes, field.TextDims)
	art := text.Plain(f, fp.Meta)
	if !m.Plain {
		art = text.Render(f, fp.Meta, palette.Derive(fp.Bytes), m.Mode)
	}
	return listDimStyle.Render(keys.Fingerprint(e.Info.Key, m.Digest)) + "\n" + art
}

// browseCommand creates the browse command, an interactive viewer for a
// set of key files.
func (c *CLI) browseCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "browse [key files...]",
		Short: "Browse the randomart of your SSH keys",
		Long: `Open an interactive list of key files and show the randomart of the
selected one. Without arguments the public keys in ~/.ssh are listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := browsePaths(args)
			if err != nil {
				return err
			}

			opts := c.Config.Options()
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			m := NewBrowseModel(loadEntries(paths), opts.DigestValue(), opts.Mode())
			m.Plain = plain

			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			if _, err := p.Run(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "run browser")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "start with escape sequences off")
	return cmd
}

// browsePaths returns args, or the public keys in ~/.ssh when args is empty.
func browsePaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeKeyUnavailable, err, "locate home directory")
	}
	paths, _ := filepath.Glob(filepath.Join(home, ".ssh", "*.pub"))
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeKeyUnavailable, "no public keys in %s", filepath.Join(home, ".ssh"))
	}
	return paths, nil
}
