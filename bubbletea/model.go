package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	counsel "github.com/mlevan/counsel"
	"github.com/mlevan/counsel/prompt"
	"github.com/mlevan/counsel/store"
)

var _ tea.Model = Model{}

const helpText = `Commands:
  /help                                        show this message
  /clear                                       clear the conversation
  /resume <text>                               get feedback on a resume section
  /interview <title> | <company> | <background> prepare for an interview
  /retry                                       re-ask your last question

Keys:
  Enter   send message
  Ctrl+N  start a new conversation
  Ctrl+C  cancel a running request, or quit when idle`

// Option configures a Model.
type Option func(*Model)

// WithShowTokenUsage controls whether the status line reports token totals.
func WithShowTokenUsage(show bool) Option {
	return func(m *Model) { m.showTokens = show }
}

// WithShowSessionInfo controls whether the status line reports the session
// ID and message count.
func WithShowSessionInfo(show bool) Option {
	return func(m *Model) { m.showSession = show }
}

// Model is the Bubble Tea model for the counsel TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	send      SendFunc
	store     *store.Store
	prompts   *prompt.Registry
	sessionID string
	theme     counsel.Theme
	styles    Styles

	showTokens  bool
	showSession bool

	blocks []MessageBlock
	// lastPrompt is the most recent prompt sent, kept for /retry.
	lastPrompt string
	running    bool
	cancel     context.CancelFunc
	err        error
	ready      bool
}

// New creates a new TUI Model. A fresh session is opened in the store and
// the welcome message is queued as the first block.
func New(send SendFunc, st *store.Store, theme counsel.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about your career..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:       ti,
		send:        send,
		store:       st,
		prompts:     prompt.NewRegistry(),
		sessionID:   st.Create(),
		theme:       theme,
		styles:      NewStyles(theme),
		showTokens:  true,
		showSession: true,
	}
	for _, o := range opts {
		o(&m)
	}
	m.blocks = []MessageBlock{NewAssistantBlock(prompt.Welcome(), m.theme)}
	return m
}

// Running returns whether a request is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// SessionID returns the active session identifier.
func (m Model) SessionID() string { return m.sessionID }

// SetRunningWithCancel is a test helper that puts the model in a running
// state with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) Model {
	m.running = true
	m.cancel = cancel
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		m = m.finishRequest()
		m.blocks = append(m.blocks, NewAssistantBlock(msg.Reply.Text, m.theme))
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		cmds = append(cmds, m.Input.Focus())
		return m, tea.Batch(cmds...)

	case ErrMsg:
		m = m.finishRequest()
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
			m.blocks = append(m.blocks, NewErrorBlock(msg.Err, m.styles))
			m.Viewport.SetContent(m.renderContent())
			m.Viewport.GotoBottom()
		}
		cmds = append(cmds, m.Input.Focus())
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) finishRequest() Model {
	m.running = false
	m.cancel = nil
	return m
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusH := 1
	gapH := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusH - gapH
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyCtrlN:
		if m.running {
			return m, nil
		}
		return m.newConversation(), nil

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		if strings.HasPrefix(text, "/") {
			return m.handleCommand(text)
		}
		return m.submitInput(text, text)
	}

	// When idle, pass keys to both the input (for typing) and the viewport
	// (for scrolling). Only forward non-character keys to the viewport to
	// avoid conflicts: 'j'/'k' are viewport scroll AND text characters.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// handleCommand dispatches a slash command. Template commands render a
// structured prompt through the registry and submit it like a normal
// message, with the original command shown in the conversation.
func (m Model) handleCommand(text string) (tea.Model, tea.Cmd) {
	name, args, _ := strings.Cut(text, " ")
	args = strings.TrimSpace(args)

	switch name {
	case "/help":
		m.Input.SetValue("")
		m.blocks = append(m.blocks, NewNoticeBlock(helpText, m.styles))
		m = m.refreshViewport()
		return m, nil

	case "/clear":
		m.Input.SetValue("")
		m.store.Clear(m.sessionID)
		m.blocks = []MessageBlock{NewNoticeBlock("Conversation cleared.", m.styles)}
		m.err = nil
		m.lastPrompt = ""
		m = m.refreshViewport()
		return m, nil

	case "/resume":
		if args == "" {
			return m.commandError(errors.New("usage: /resume <resume text>"))
		}
		rendered, err := m.prompts.Render(prompt.TemplateResumeReview, map[string]any{
			"resume_text": args,
		})
		if err != nil {
			return m.commandError(err)
		}
		return m.submitInput(text, rendered)

	case "/retry":
		if m.lastPrompt == "" {
			return m.commandError(errors.New("nothing to retry yet"))
		}
		rendered, err := m.prompts.Render(prompt.TemplateRetryContext, map[string]any{
			"user_message": m.lastPrompt,
		})
		if err != nil {
			return m.commandError(err)
		}
		return m.submitInput(text, rendered)

	case "/interview":
		parts := strings.Split(args, "|")
		if len(parts) != 3 {
			return m.commandError(errors.New("usage: /interview <job title> | <company> | <background>"))
		}
		rendered, err := m.prompts.Render(prompt.TemplateInterviewPrep, map[string]any{
			"job_title":  strings.TrimSpace(parts[0]),
			"company":    strings.TrimSpace(parts[1]),
			"background": strings.TrimSpace(parts[2]),
		})
		if err != nil {
			return m.commandError(err)
		}
		return m.submitInput(text, rendered)

	default:
		return m.commandError(fmt.Errorf("unknown command %q, try /help", name))
	}
}

func (m Model) commandError(err error) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.blocks = append(m.blocks, NewErrorBlock(err, m.styles))
	m = m.refreshViewport()
	return m, nil
}

// submitInput sends text to the chat service. display is what appears in
// the conversation, which differs from text for slash commands.
func (m Model) submitInput(display, text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil
	// A retry must re-ask the original question, not the retry wrapper.
	if !strings.HasPrefix(display, "/retry") {
		m.lastPrompt = text
	}

	m.blocks = append(m.blocks, NewUserMessageBlock(display, m.styles))
	m = m.refreshViewport()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.Input.Blur()

	return m, sendMessage(ctx, m.send, m.sessionID, text)
}

func (m Model) newConversation() Model {
	m.store.Clear(m.sessionID)
	m.sessionID = m.store.Create()
	m.err = nil
	m.lastPrompt = ""
	m.blocks = []MessageBlock{NewAssistantBlock(prompt.Welcome(), m.theme)}
	return m.refreshViewport()
}

func (m Model) refreshViewport() Model {
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.running {
		return m.styles.Muted.Render("Generating...")
	}

	hint := "Enter to send, /help for commands, Ctrl+C to quit"
	var info []string
	if stats, ok := m.store.Stats(m.sessionID); ok {
		if m.showSession {
			info = append(info, fmt.Sprintf("%d messages", stats.TurnCount))
			info = append(info, "session "+m.sessionID)
		}
		if m.showTokens {
			info = append(info, fmt.Sprintf("%d tokens", stats.TotalTokens))
		}
	}
	if len(info) > 0 {
		hint += "  |  " + strings.Join(info, " · ")
	}
	return m.styles.Muted.Render(hint)
}

// sendMessage runs the send function in a goroutine and delivers the result
// back to the model as a message.
func sendMessage(ctx context.Context, send SendFunc, sessionID, text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := send(ctx, sessionID, text)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ReplyMsg{Reply: reply}
	}
}
