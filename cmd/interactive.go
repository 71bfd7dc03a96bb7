package cmd

import (
	"errors"
	"fmt"
	_ "image/jpeg" // Support JPEG decoding
	_ "image/png"  // Support PNG decoding
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/obscura-tools/obscura/pkg/crypto/packer"
	"github.com/obscura-tools/obscura/pkg/stego"
	"github.com/obscura-tools/obscura/pkg/watermark"
	"github.com/spf13/cobra"
)

// Styles
var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	cursorStyle  = focusedStyle.Copy()
	resultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
)

type fileItem struct {
	path  string
	name  string
	isDir bool
}

type model struct {
	path          string
	files         []fileItem
	cursor        int
	status        string
	result        string
	passwordInput textinput.Model
	askingPass    bool
	pendingAction string // "reveal" or "inspect", run once a password is entered
	quitting      bool
}

func initialModel() model {
	cwd, _ := os.Getwd()

	ti := textinput.New()
	ti.Placeholder = "password (empty for none)"
	ti.EchoMode = textinput.EchoPassword

	m := model{
		path:          cwd,
		passwordInput: ti,
		status:        "Navigate: ↑/↓ | Enter: Open Dir | 'r': Reveal | 'w': Inspect Watermark",
	}
	m.loadFiles()
	return m
}

func (m *model) loadFiles() {
	entries, err := os.ReadDir(m.path)
	if err != nil {
		m.status = "Error reading directory"
		return
	}

	m.files = []fileItem{}
	// Parent directory
	m.files = append(m.files, fileItem{name: "..", isDir: true, path: filepath.Dir(m.path)})

	for _, e := range entries {
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		isRel := e.IsDir() || ext == ".png" || ext == ".jpg" || ext == ".jpeg" || ext == ".obs"
		if isRel {
			m.files = append(m.files, fileItem{
				name:  name,
				isDir: e.IsDir(),
				path:  filepath.Join(m.path, name),
			})
		}
	}
	m.cursor = 0
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Password entry swallows every key except enter/esc.
		if m.askingPass {
			switch msg.String() {
			case "enter":
				m.askingPass = false
				action := m.pendingAction
				m.pendingAction = ""
				return m, m.runAction(action, m.passwordInput.Value())
			case "esc":
				m.askingPass = false
				m.pendingAction = ""
				return m, nil
			default:
				var cmd tea.Cmd
				m.passwordInput, cmd = m.passwordInput.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
			}

		case "enter":
			selected := m.files[m.cursor]
			if selected.isDir {
				m.path = selected.path
				m.loadFiles()
			}

		case "r":
			return m, m.askPassword("reveal")

		case "w":
			return m, m.askPassword("inspect")
		}

	case statusMsg:
		m.status = string(msg)

	case resultMsg:
		m.result = string(msg)
		m.status = "Done. 'r'/'w' for another file, 'q' to quit."
	}

	return m, nil
}

type statusMsg string
type resultMsg string

// askPassword switches into password entry for the selected file.
func (m *model) askPassword(action string) tea.Cmd {
	if m.files[m.cursor].isDir {
		m.status = "Select a file, not a directory"
		return nil
	}
	m.askingPass = true
	m.pendingAction = action
	m.passwordInput.SetValue("")
	m.passwordInput.Focus()
	return textinput.Blink
}

// runAction extracts from the file under the cursor.
func (m model) runAction(action, password string) tea.Cmd {
	path := m.files[m.cursor].path
	return func() tea.Msg {
		out, err := runInteractiveExtract(path, action, password)
		if err != nil {
			return statusMsg(fmt.Sprintf("Error: %v", err))
		}
		return resultMsg(out)
	}
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	s := fmt.Sprintf("Directory: %s\n\n", m.path)

	for i, file := range m.files {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
			s += cursorStyle.Render(cursor)
		} else {
			s += cursor
		}

		line := file.name
		if file.isDir {
			line = "[DIR] " + file.name
		}

		s += " " + line + "\n"
	}

	if m.askingPass {
		s += "\n" + m.passwordInput.View() + "\n"
	}

	if m.result != "" {
		s += "\n" + resultStyle.Render(m.result) + "\n"
	}

	s += fmt.Sprintf("\n%s\n", m.status)
	return docStyle.Render(s)
}

// runInteractiveExtract is the core reveal/inspect logic adapted for the
// TUI to run on one selected file.
func runInteractiveExtract(path, action, password string) (string, error) {
	// .obs packets have no image carrier: decrypt directly.
	if strings.EqualFold(filepath.Ext(path), ".obs") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		data, meta, err := packer.New().DecryptFile(strings.TrimSpace(string(raw)), password)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Sealed file: %s (%d bytes)", meta.Filename, len(data)), nil
	}

	buf, err := loadPixels(path)
	if err != nil {
		return "", err
	}

	if action == "inspect" {
		record, err := watermark.NewCodec().Extract(buf, password)
		if err != nil {
			if errors.Is(err, watermark.ErrPasswordRequired) {
				return "", fmt.Errorf("watermark is encrypted: press 'w' again and enter the password")
			}
			return "", err
		}
		return fmt.Sprintf("Watermark: %s (version %s)", record.Watermark, record.Version), nil
	}

	text, err := stego.ExtractText(buf)
	if err != nil {
		return "", err
	}
	if password != "" && strings.Count(text, ":") == 2 {
		plaintext, err := packer.New().Decrypt(text, password)
		if err == nil {
			return "Hidden message: " + string(plaintext), nil
		}
		if !errors.Is(err, packer.ErrMalformedPacket) {
			return "", err
		}
	}
	return "Hidden message: " + text, nil
}

// Cobra command setup
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Interactive terminal UI for revealing hidden data",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(initialModel())
		if _, err := p.Run(); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
