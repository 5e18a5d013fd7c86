package counsel_test

import (
	"testing"

	counsel "github.com/mlevan/counsel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     counsel.Request
		wantErr bool
	}{
		{
			name: "valid minimal request",
			req:  counsel.Request{Prompt: "hello"},
		},
		{
			name: "valid full request",
			req: counsel.Request{
				Prompt:      "hello",
				MaxTokens:   2048,
				Temperature: float64Ptr(0.7),
				TopP:        float64Ptr(0.95),
				TopK:        intPtr(40),
				History: []counsel.Turn{
					{Role: counsel.RoleUser, Content: "hi"},
					{Role: counsel.RoleAssistant, Content: "hello"},
				},
			},
		},
		{
			name:    "empty prompt",
			req:     counsel.Request{Prompt: "   "},
			wantErr: true,
		},
		{
			name:    "temperature too high",
			req:     counsel.Request{Prompt: "x", Temperature: float64Ptr(2.5)},
			wantErr: true,
		},
		{
			name:    "temperature negative",
			req:     counsel.Request{Prompt: "x", Temperature: float64Ptr(-0.1)},
			wantErr: true,
		},
		{
			name:    "top_p out of range",
			req:     counsel.Request{Prompt: "x", TopP: float64Ptr(1.5)},
			wantErr: true,
		},
		{
			name:    "top_k zero",
			req:     counsel.Request{Prompt: "x", TopK: intPtr(0)},
			wantErr: true,
		},
		{
			name:    "negative max tokens",
			req:     counsel.Request{Prompt: "x", MaxTokens: -1},
			wantErr: true,
		},
		{
			name: "unknown history role",
			req: counsel.Request{
				Prompt:  "x",
				History: []counsel.Turn{{Role: "system", Content: "nope"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, counsel.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUsage_Total(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 30, counsel.Usage{TotalTokens: 30}.Total())
	assert.Equal(t, 25, counsel.Usage{PromptTokens: 10, CompletionTokens: 15}.Total())
}
