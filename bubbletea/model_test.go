package bubbletea_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	counsel "github.com/mlevan/counsel"
	bt "github.com/mlevan/counsel/bubbletea"
	"github.com/mlevan/counsel/chat"
	"github.com/mlevan/counsel/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(nopSend, store.New(), counsel.DefaultTheme())

	assert.False(t, m.Running())
	assert.NoError(t, m.Err())
	assert.NotEmpty(t, m.SessionID())
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size initializes viewport", func(t *testing.T) {
		t.Parallel()

		m := bt.New(nopSend, store.New(), counsel.DefaultTheme())
		updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		model, ok := updated.(bt.Model)
		require.True(t, ok)

		view := model.View()
		assert.NotEmpty(t, view)
	})

	t.Run("window size resize updates viewport dimensions", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)

		assert.Equal(t, 80, m.Viewport.Width)
		assert.Equal(t, 20, m.Viewport.Height) // 24 - 1 - 1 - 2 = 20

		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

		assert.Equal(t, 120, m.Viewport.Width)
		assert.Equal(t, 36, m.Viewport.Height)
	})

	t.Run("welcome message renders on init", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)

		assert.Contains(t, m.View(), "CareerAI")
	})

	t.Run("ctrl+c when idle quits", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		require.NotNil(t, cmd)
		msg := cmd()
		_, isQuit := msg.(tea.QuitMsg)
		assert.True(t, isQuit)
	})

	t.Run("ctrl+c while running cancels the request", func(t *testing.T) {
		t.Parallel()

		var cancelled atomic.Bool
		m := initModel(t, nopSend)
		m = bt.SetRunningWithCancel(m, func() { cancelled.Store(true) })

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		model := updated.(bt.Model)

		assert.Nil(t, cmd)
		assert.True(t, cancelled.Load())
		assert.True(t, model.Running(), "cancel does not clear running until the reply message arrives")
	})

	t.Run("enter with empty input does nothing", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := updated.(bt.Model)

		assert.False(t, model.Running())
		assert.Nil(t, cmd)
	})

	t.Run("enter submits input and marks model running", func(t *testing.T) {
		t.Parallel()

		var got string
		send := func(_ context.Context, _, text string) (chat.Reply, error) {
			got = text
			return chat.Reply{Text: "advice"}, nil
		}

		m := initModel(t, send)
		m.Input.SetValue("how do I negotiate salary?")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := updated.(bt.Model)

		assert.True(t, model.Running())
		assert.Empty(t, model.Input.Value())
		assert.Contains(t, model.View(), "how do I negotiate salary?")
		assert.Contains(t, model.View(), "Generating...")

		// Executing the command runs the send function and yields the reply.
		require.NotNil(t, cmd)
		msg := cmd()
		reply, ok := msg.(bt.ReplyMsg)
		require.True(t, ok)
		assert.Equal(t, "advice", reply.Reply.Text)
		assert.Equal(t, "how do I negotiate salary?", got)
	})

	t.Run("enter while running is ignored", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		m = bt.SetRunningWithCancel(m, func() {})
		m.Input.SetValue("queued")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := updated.(bt.Model)

		assert.Nil(t, cmd)
		assert.Equal(t, "queued", model.Input.Value())
	})

	t.Run("reply message renders assistant markdown and clears running", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		m = bt.SetRunningWithCancel(m, func() {})

		m = updateModel(t, m, bt.ReplyMsg{Reply: chat.Reply{Text: "**Quantify** your wins"}})

		assert.False(t, m.Running())
		assert.Contains(t, m.View(), "Quantify")
		assert.NotContains(t, m.View(), "**", "markdown syntax is rendered, not shown")
	})

	t.Run("error message shows inline and conversation continues", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		m = bt.SetRunningWithCancel(m, func() {})

		m = updateModel(t, m, bt.ErrMsg{Err: errors.New("invalid request")})

		assert.False(t, m.Running())
		assert.Error(t, m.Err())
		assert.Contains(t, m.View(), "invalid request")
	})

	t.Run("cancellation error is not shown", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		m = bt.SetRunningWithCancel(m, func() {})

		m = updateModel(t, m, bt.ErrMsg{Err: context.Canceled})

		assert.False(t, m.Running())
		assert.NoError(t, m.Err())
		assert.NotContains(t, m.View(), "Error")
	})

	t.Run("ctrl+n starts a new conversation", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, staticSend("answer"))
		first := m.SessionID()

		m.Input.SetValue("hello")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m = updateModel(t, m, bt.ReplyMsg{Reply: chat.Reply{Text: "answer"}})
		require.Contains(t, m.View(), "answer")

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

		assert.NotEqual(t, first, m.SessionID())
		assert.NotContains(t, m.View(), "answer")
		assert.Contains(t, m.View(), "CareerAI")
	})

	t.Run("status line shows session info when enabled", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)

		view := m.View()
		assert.Contains(t, view, "messages")
		assert.Contains(t, view, "tokens")
		assert.Contains(t, view, "session "+m.SessionID())
	})

	t.Run("status line hides session info when disabled", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend, bt.WithShowTokenUsage(false), bt.WithShowSessionInfo(false))

		view := m.View()
		assert.NotContains(t, view, "tokens")
		assert.NotContains(t, view, "session "+m.SessionID())
	})
}

func TestModel_Commands(t *testing.T) {
	t.Parallel()

	t.Run("help shows command list", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		m.Input.SetValue("/help")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.False(t, m.Running())
		assert.Contains(t, m.View(), "/resume")
		assert.Contains(t, m.View(), "/interview")
	})

	t.Run("clear resets the conversation", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, staticSend("some advice"))
		m.Input.SetValue("hi")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m = updateModel(t, m, bt.ReplyMsg{Reply: chat.Reply{Text: "some advice"}})
		require.Contains(t, m.View(), "some advice")

		m.Input.SetValue("/clear")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.NotContains(t, m.View(), "some advice")
		assert.Contains(t, m.View(), "Conversation cleared")
	})

	t.Run("resume renders the template into the sent prompt", func(t *testing.T) {
		t.Parallel()

		var sent string
		send := func(_ context.Context, _, text string) (chat.Reply, error) {
			sent = text
			return chat.Reply{Text: "feedback"}, nil
		}

		m := initModel(t, send)
		m.Input.SetValue("/resume Led a team of 5 engineers")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := updated.(bt.Model)

		assert.True(t, model.Running())
		// The conversation shows the command, not the expanded prompt.
		assert.Contains(t, model.View(), "/resume Led a team of 5 engineers")

		require.NotNil(t, cmd)
		cmd()
		assert.Contains(t, sent, "Led a team of 5 engineers")
		assert.Contains(t, sent, "ATS keyword optimization")
	})

	t.Run("resume without text shows usage error", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		m.Input.SetValue("/resume")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.False(t, m.Running())
		assert.Contains(t, m.View(), "usage: /resume")
	})

	t.Run("interview renders all three fields into the sent prompt", func(t *testing.T) {
		t.Parallel()

		var sent string
		send := func(_ context.Context, _, text string) (chat.Reply, error) {
			sent = text
			return chat.Reply{}, nil
		}

		m := initModel(t, send)
		m.Input.SetValue("/interview Staff Engineer | Acme | 8 years of backend work")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := updated.(bt.Model)

		assert.True(t, model.Running())
		require.NotNil(t, cmd)
		cmd()
		assert.Contains(t, sent, "Position: Staff Engineer")
		assert.Contains(t, sent, "Company: Acme")
		assert.Contains(t, sent, "My Background: 8 years of backend work")
	})

	t.Run("interview with wrong arity shows usage error", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		m.Input.SetValue("/interview Staff Engineer | Acme")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.False(t, m.Running())
		assert.Contains(t, m.View(), "usage: /interview")
	})

	t.Run("retry re-asks the last question", func(t *testing.T) {
		t.Parallel()

		var sent []string
		send := func(_ context.Context, _, text string) (chat.Reply, error) {
			sent = append(sent, text)
			return chat.Reply{Text: "ok"}, nil
		}

		m := initModel(t, send)
		m.Input.SetValue("how do I pivot into data science?")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(bt.Model)
		require.NotNil(t, cmd)
		cmd()
		m = updateModel(t, m, bt.ReplyMsg{Reply: chat.Reply{Text: "ok"}})

		m.Input.SetValue("/retry")
		updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(bt.Model)
		require.NotNil(t, cmd)
		cmd()

		require.Len(t, sent, 2)
		assert.Contains(t, sent[1], `The user asked: "how do I pivot into data science?"`)
	})

	t.Run("retry with no prior question shows error", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		m.Input.SetValue("/retry")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.False(t, m.Running())
		assert.Contains(t, m.View(), "nothing to retry")
	})

	t.Run("unknown command shows error", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopSend)
		m.Input.SetValue("/salary")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.False(t, m.Running())
		assert.Contains(t, m.View(), "unknown command")
	})
}

func TestModel_ViewportWrapping(t *testing.T) {
	t.Parallel()

	// Start with a narrow viewport so word-wrapping is visible, then widen
	// it. Content must be re-rendered at the new width.
	m := initModelWithSize(t, nopSend, 30, 20)
	m = bt.SetRunningWithCancel(m, func() {})

	longLine := "word1 word2 word3 word4 word5 word6 word7 word8"
	m = updateModel(t, m, bt.ReplyMsg{Reply: chat.Reply{Text: longLine}})
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 20})

	var found bool
	for _, line := range strings.Split(m.Viewport.View(), "\n") {
		if strings.Contains(line, "word1") && strings.Contains(line, "word8") {
			found = true
			break
		}
	}
	assert.True(t, found, "expected word1 and word8 on the same line after resize")
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("full send and reply cycle", func(t *testing.T) {
		t.Parallel()

		m := bt.New(staticSend("Here are three salary negotiation tactics."), store.New(), counsel.DefaultTheme())

		tm := teatest.NewTestModel(t, m,
			teatest.WithInitialTermSize(80, 24),
		)

		tm.Type("how should I negotiate?")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("salary negotiation tactics")) &&
				bytes.Contains(out, []byte("Enter to send"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(bt.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.NoError(t, final.Err())
	})

	t.Run("conversation continues after send error", func(t *testing.T) {
		t.Parallel()

		var callCount atomic.Int32
		send := func(_ context.Context, _, _ string) (chat.Reply, error) {
			if callCount.Add(1) == 1 {
				return chat.Reply{}, errors.New("simulated API error")
			}
			return chat.Reply{Text: "recovered"}, nil
		}

		m := bt.New(send, store.New(), counsel.DefaultTheme())

		tm := teatest.NewTestModel(t, m,
			teatest.WithInitialTermSize(80, 24),
		)

		tm.Type("hello")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("simulated API error"))
		}, teatest.WithDuration(5*time.Second))

		tm.Type("retry")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("recovered"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))
		assert.Equal(t, int32(2), callCount.Load())
	})
}
