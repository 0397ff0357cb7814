package cli

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"expertbook/config"
	"expertbook/internal/i18n"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// sanitizeValue strips ANSI escape sequences and control characters from config values
func sanitizeValue(s string) string {
	s = ansiRegex.ReplaceAllString(s, "")
	var b strings.Builder
	for _, r := range s {
		if r >= 32 || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var (
	purple      = lipgloss.Color("#7C3AED")
	purpleLight = lipgloss.Color("#A78BFA")
	green       = lipgloss.Color("#10B981")
	red         = lipgloss.Color("#EF4444")
	gray        = lipgloss.Color("#6B7280")
	grayDark    = lipgloss.Color("#374151")
	white       = lipgloss.Color("#F9FAFB")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(purple).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(purpleLight).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(white)

	emptyStyle = lipgloss.NewStyle().
			Foreground(gray).
			Italic(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(white).
			Background(purple).
			Bold(true).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(purple).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(gray).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	savedStyle = lipgloss.NewStyle().
			Foreground(green)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(grayDark).
			Padding(1, 2)

	editBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(1, 2)
)

// setting is one editable scalar of config.Config.
type setting struct {
	key   string
	label string
	get   func(c config.Config) string
	set   func(c *config.Config, v string) error
}

var settings = []setting{
	{
		key:   "base_url",
		label: "Backend URL",
		get:   func(c config.Config) string { return c.BaseURL },
		set: func(c *config.Config, v string) error {
			u, err := url.Parse(v)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("must be an http(s) URL")
			}
			c.BaseURL = v
			return nil
		},
	},
	{
		key:   "language",
		label: "Language",
		get:   func(c config.Config) string { return c.Language },
		set: func(c *config.Config, v string) error {
			if v != "" && !i18n.IsSupported(v) {
				return fmt.Errorf("one of %s, or empty for auto", strings.Join(i18n.SupportedLanguages, ", "))
			}
			c.Language = v
			return nil
		},
	},
	{
		key:   "request_timeout",
		label: "Request Timeout",
		get:   func(c config.Config) string { return c.RequestTimeout.String() },
		set: func(c *config.Config, v string) error {
			d, err := parsePositiveDuration(v)
			if err != nil {
				return err
			}
			c.RequestTimeout = d
			return nil
		},
	},
	{
		key:   "open_browser",
		label: "Open Browser",
		get:   func(c config.Config) string { return strconv.FormatBool(c.OpenBrowser) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("must be true or false")
			}
			c.OpenBrowser = b
			return nil
		},
	},
	{
		key:   "notify",
		label: "Notifications",
		get:   func(c config.Config) string { return strconv.FormatBool(c.Notify) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("must be true or false")
			}
			c.Notify = b
			return nil
		},
	},
	{
		key:   "log_level",
		label: "Log Level",
		get:   func(c config.Config) string { return c.LogLevel },
		set: func(c *config.Config, v string) error {
			switch strings.ToLower(v) {
			case "debug", "info", "warn", "error":
				c.LogLevel = strings.ToLower(v)
				return nil
			}
			return fmt.Errorf("one of debug, info, warn, error")
		},
	},
	{
		key:   "log_file",
		label: "Log File",
		get:   func(c config.Config) string { return c.LogFile },
		set: func(c *config.Config, v string) error {
			c.LogFile = v
			return nil
		},
	},
}

func parsePositiveDuration(v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("must be a positive duration such as 30s")
	}
	return d, nil
}

// ConfigTUI views and edits the config file. Environment overrides are not
// shown, so saving never writes them into the file.
type ConfigTUI struct {
	cfg      config.Config
	cursor   int
	editMode bool
	editing  bool
	input    textinput.Model
	dirty    bool
	confirm  bool
	saved    bool
	loadErr  error
	saveErr  error
	fieldErr string
	save     func(config.Config) error
}

func NewConfigTUI() ConfigTUI {
	cfg, err := config.LoadFile()
	return ConfigTUI{
		cfg:     cfg,
		loadErr: err,
		save:    config.Config.Save,
	}
}

func (m ConfigTUI) Init() tea.Cmd {
	return nil
}

func (m ConfigTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.confirm {
			return m.updateConfirm(msg)
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		if m.editMode {
			return m.updateEditMode(msg)
		}
		return m.updateReadOnly(msg)
	}
	return m, nil
}

func (m ConfigTUI) updateReadOnly(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "e":
		if m.loadErr != nil {
			return m, nil
		}
		m.editMode = true
		m.saved = false
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfigTUI) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter", " ":
		return m.startEditing()
	case "ctrl+s":
		return m.saveConfig()
	case "q", "esc", "ctrl+c":
		if m.dirty {
			m.confirm = true
			return m, nil
		}
		m.editMode = false
	}
	return m, nil
}

func (m ConfigTUI) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.saveField()
	case "esc":
		m.editing = false
		m.fieldErr = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ConfigTUI) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "s":
		m.confirm = false
		return m.saveConfig()
	case "n", "d":
		m.dirty = false
		m.editMode = false
		m.confirm = false
		m.saveErr = nil
		m.cfg, m.loadErr = config.LoadFile()
	case "esc", "c":
		m.confirm = false
	}
	return m, nil
}

func (m *ConfigTUI) moveCursor(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(settings) {
		m.cursor = next
	}
}

func (m ConfigTUI) startEditing() (tea.Model, tea.Cmd) {
	m.editing = true
	m.fieldErr = ""
	m.input = textinput.New()
	m.input.Focus()
	m.input.CharLimit = 200
	m.input.Width = 40
	m.input.Prompt = ""
	m.input.SetValue(settings[m.cursor].get(m.cfg))
	return m, textinput.Blink
}

func (m ConfigTUI) saveField() (tea.Model, tea.Cmd) {
	s := settings[m.cursor]
	value := strings.TrimSpace(sanitizeValue(m.input.Value()))

	if value == s.get(m.cfg) {
		m.editing = false
		return m, nil
	}
	if err := s.set(&m.cfg, value); err != nil {
		m.fieldErr = err.Error()
		return m, nil
	}

	m.dirty = true
	m.editing = false
	m.fieldErr = ""
	return m, nil
}

func (m ConfigTUI) saveConfig() (tea.Model, tea.Cmd) {
	if err := m.save(m.cfg); err != nil {
		m.saveErr = err
		return m, nil
	}
	m.saveErr = nil
	m.dirty = false
	m.editMode = false
	m.saved = true
	return m, nil
}

func (m ConfigTUI) View() string {
	var content strings.Builder

	title := "⚙  expertbook configuration"
	if m.dirty {
		title += errorStyle.Render(" (unsaved)")
	}
	content.WriteString(titleStyle.Render(title))
	content.WriteString("\n\n")

	if m.loadErr != nil {
		content.WriteString(errorStyle.Render("⚠ Error loading config: " + m.loadErr.Error()))
		content.WriteString("\n\n")
	}
	if m.saveErr != nil {
		content.WriteString(errorStyle.Render("⚠ Error saving config: " + m.saveErr.Error()))
		content.WriteString("\n\n")
	}
	if m.saved {
		content.WriteString(savedStyle.Render("✓ Saved"))
		content.WriteString("\n\n")
	}

	for i := range settings {
		content.WriteString(m.renderRow(i))
		content.WriteString("\n")
	}

	if m.confirm {
		content.WriteString("\n")
		content.WriteString(errorStyle.Render("Unsaved changes! [s]ave • [d]iscard • [c]ancel"))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	switch {
	case m.editing:
		content.WriteString(hintStyle.Render("Enter to apply • Esc to cancel"))
	case m.editMode:
		content.WriteString(hintStyle.Render("↑↓ Navigate • Enter to edit • Ctrl+S to save • Esc to exit"))
	case m.loadErr != nil:
		content.WriteString(hintStyle.Render("↑↓ Navigate • Q to quit (editing disabled)"))
	default:
		content.WriteString(hintStyle.Render("↑↓ Navigate • E to edit • Q to quit"))
	}

	if m.editMode {
		return editBoxStyle.Render(content.String())
	}
	return boxStyle.Render(content.String())
}

func (m ConfigTUI) renderRow(idx int) string {
	s := settings[idx]
	selected := idx == m.cursor

	label := labelStyle.Render(s.label)
	sanitized := sanitizeValue(s.get(m.cfg))
	value := valueStyle.Render(sanitized)
	if sanitized == "" {
		value = emptyStyle.Render("(not set)")
	}

	if m.editing && selected {
		line := cursorStyle.Render("▸ ") + label + m.input.View()
		if m.fieldErr != "" {
			line += "  " + errorStyle.Render("⚠ "+m.fieldErr)
		}
		return line
	}

	if selected {
		return cursorStyle.Render("▸ ") + label + selectedStyle.Render(" "+sanitized+" ")
	}
	return "  " + label + value
}

func RunConfigTUI() error {
	p := tea.NewProgram(NewConfigTUI(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
