package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	counsel "github.com/mlevan/counsel"
	bt "github.com/mlevan/counsel/bubbletea"
	"github.com/mlevan/counsel/chat"
	"github.com/mlevan/counsel/store"
	"github.com/stretchr/testify/require"
)

// initModel creates a model with a fresh store and sends a WindowSizeMsg to
// initialize the viewport.
func initModel(t *testing.T, send bt.SendFunc, opts ...bt.Option) bt.Model {
	t.Helper()
	return initModelWithSize(t, send, 80, 24, opts...)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, send bt.SendFunc, width, height int, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(send, store.New(), counsel.DefaultTheme(), opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopSend is a send function that returns an empty reply.
func nopSend(_ context.Context, _, _ string) (chat.Reply, error) {
	return chat.Reply{}, nil
}

// staticSend returns a send function that always replies with text.
func staticSend(text string) bt.SendFunc {
	return func(_ context.Context, _, _ string) (chat.Reply, error) {
		return chat.Reply{Text: text}, nil
	}
}
