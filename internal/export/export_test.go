// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantLen int
	}{
		{
			name:    "valid export with messages",
			input:   `{"context": "x", "messages": [{"author": "user", "content": "hi"}]}`,
			wantLen: 1,
		},
		{
			name:    "empty messages list",
			input:   `{"messages": []}`,
			wantLen: 0,
		},
		{
			name:    "truncated JSON",
			input:   `{"messages": [`,
			wantErr: ErrParse,
		},
		{
			name:    "missing messages field",
			input:   `{"context": "x"}`,
			wantErr: ErrInvalidShape,
		},
		{
			name:    "messages is not a list",
			input:   `{"messages": "nope"}`,
			wantErr: ErrInvalidShape,
		},
		{
			name:    "root is not an object",
			input:   `[1, 2, 3]`,
			wantErr: ErrInvalidShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, doc.Len())
		})
	}
}

func TestParse_Context(t *testing.T) {
	doc, err := Parse([]byte(`{"context": "system prompt", "messages": []}`))
	require.NoError(t, err)
	assert.Equal(t, "system prompt", doc.Context)
}

func TestAuthorResolution(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "author field capitalized",
			message: `{"author": "user", "content": "hi"}`,
			want:    "User",
		},
		{
			name:    "author wins over role",
			message: `{"author": "model", "role": "assistant", "content": "hi"}`,
			want:    "Model",
		},
		{
			name:    "role fallback",
			message: `{"role": "assistant", "content": "hi"}`,
			want:    "Assistant",
		},
		{
			name:    "upper-case label normalized",
			message: `{"author": "MODEL", "content": "hi"}`,
			want:    "Model",
		},
		{
			name:    "neither field yields placeholder",
			message: `{"content": "hi"}`,
			want:    "Message 1 (Unknown Author)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(`{"messages": [` + tt.message + `]}`))
			require.NoError(t, err)
			msg, err := doc.Message(0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg.Author.Heading())
		})
	}
}

func TestAuthorPlaceholderIndex(t *testing.T) {
	doc, err := Parse([]byte(`{"messages": [{"content": "a"}, {"content": "b"}, {"content": "c"}]}`))
	require.NoError(t, err)

	msg, err := doc.Message(2)
	require.NoError(t, err)
	assert.Equal(t, "Message 3 (Unknown Author)", msg.Author.Heading())
}

func TestContentResolution(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantLines []string
	}{
		{
			name:      "plain string content",
			message:   `{"author": "user", "content": "hello"}`,
			wantLines: []string{"hello"},
		},
		{
			name:      "content wins over text",
			message:   `{"author": "user", "content": "from content", "text": "from text"}`,
			wantLines: []string{"from content"},
		},
		{
			name:      "structured content with parts",
			message:   `{"content": {"role": "user", "parts": [{"text": "hi"}]}}`,
			wantLines: []string{"hi"},
		},
		{
			name:      "structured content with multiple parts",
			message:   `{"content": {"parts": [{"text": "one"}, {"text": "two"}]}}`,
			wantLines: []string{"one", "two"},
		},
		{
			name:      "text fallback rendered directly",
			message:   `{"author": "user", "text": "raw text"}`,
			wantLines: []string{"raw text"},
		},
		{
			name:      "missing content placeholder",
			message:   `{"author": "user"}`,
			wantLines: []string{MissingContentPlaceholder},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(`{"messages": [` + tt.message + `]}`))
			require.NoError(t, err)
			msg, err := doc.Message(0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLines, msg.Content.BodyLines())
		})
	}
}

func TestMalformedMessages(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{
			name:    "structured content without parts",
			message: `{"content": {"role": "user"}}`,
		},
		{
			name:    "part without text",
			message: `{"content": {"parts": [{"data": "x"}]}}`,
		},
		{
			name:    "content is a number",
			message: `{"content": 42}`,
		},
		{
			name:    "content is a list",
			message: `{"content": ["a", "b"]}`,
		},
		{
			name:    "content is null",
			message: `{"content": null}`,
		},
		{
			name:    "text is an object",
			message: `{"text": {"parts": []}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(`{"messages": [{"author": "user", "content": "ok"}, ` + tt.message + `]}`))
			require.NoError(t, err)

			_, err = doc.Message(1)
			var malformed *MalformedMessageError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, 2, malformed.Index)
		})
	}
}

func TestMessagesStopsAtFirstMalformed(t *testing.T) {
	doc, err := Parse([]byte(`{"messages": [
		{"author": "user", "content": "fine"},
		{"author": "model", "content": {"role": "model"}},
		{"author": "user", "content": "never reached"}
	]}`))
	require.NoError(t, err)

	_, err = doc.Messages()
	var malformed *MalformedMessageError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 2, malformed.Index)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "User", capitalize("user"))
	assert.Equal(t, "Model", capitalize("MODEL"))
	assert.Equal(t, "", capitalize(""))
}
