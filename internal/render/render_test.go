// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"testing"

	"github.com/meshintel/vertexmd/internal/export"
)

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := Header(&buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "# Vertex AI Conversation Log\n\n" {
		t.Errorf("header = %q", got)
	}
}

func TestErrorSection(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorSection(&buf, "Could not parse the input file."); err != nil {
		t.Fatal(err)
	}
	want := "## Error\n\nCould not parse the input file.\n"
	if got := buf.String(); got != want {
		t.Errorf("error section = %q, want %q", got, want)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  export.Message
		want string
	}{
		{
			name: "named author with plain content",
			msg: export.Message{
				Author:  export.Author{Named: true, Label: "User"},
				Content: export.Content{Kind: export.ContentPlain, Text: "hello"},
			},
			want: "## User\n\nhello\n\n",
		},
		{
			name: "structured content writes one line per part",
			msg: export.Message{
				Author:  export.Author{Named: true, Label: "Model"},
				Content: export.Content{Kind: export.ContentStructured, Parts: []string{"one", "two"}},
			},
			want: "## Model\n\none\ntwo\n\n",
		},
		{
			name: "placeholder author and missing content",
			msg: export.Message{
				Author:  export.Author{Index: 3},
				Content: export.Content{Kind: export.ContentMissing},
			},
			want: "## Message 3 (Unknown Author)\n\n*No text content found in this message.*\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Message(&buf, tt.msg); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNoMessages(t *testing.T) {
	var buf bytes.Buffer
	if err := NoMessages(&buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "*No messages found in the file.*\n" {
		t.Errorf("placeholder = %q", got)
	}
}
