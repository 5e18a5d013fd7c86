// Package bubbletea provides the Bubble Tea TUI for the counsel chat.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mlevan/counsel/chat"
)

// SendFunc processes one user message in a session and returns the reply.
// It blocks until the reply arrives, the retries are exhausted, or the
// context is cancelled.
type SendFunc func(ctx context.Context, sessionID, text string) (chat.Reply, error)

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown. When cancelled,
// the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ReplyMsg delivers a completed reply to the model.
type ReplyMsg struct {
	Reply chat.Reply
}

// ErrMsg delivers a send failure to the model.
type ErrMsg struct {
	Err error
}
