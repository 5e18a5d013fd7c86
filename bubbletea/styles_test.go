package bubbletea_test

import (
	"testing"

	counsel "github.com/mlevan/counsel"
	bt "github.com/mlevan/counsel/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNewStyles(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(counsel.DefaultTheme())

	// Rendering must pass content through unchanged regardless of the
	// active color profile.
	assert.Contains(t, styles.UserMsg.Render("hello"), "hello")
	assert.Contains(t, styles.Notice.Render("notice"), "notice")
	assert.Contains(t, styles.Error.Render("boom"), "boom")
	assert.Contains(t, styles.Muted.Render("hint"), "hint")
}
