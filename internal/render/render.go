// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes the Markdown form of a conversation: a document
// header, one level-2 section per message, and placeholder or error sections
// for degenerate inputs. All functions stream to an io.Writer so the
// converter can emit the header before parsing and stop mid-document on a
// malformed message.
package render

import (
	"fmt"
	"io"

	"github.com/meshintel/vertexmd/internal/export"
)

// DocumentTitle is the first line of every output document.
const DocumentTitle = "# Vertex AI Conversation Log"

// NoMessagesPlaceholder is written in place of message sections when the
// export's messages list is empty.
const NoMessagesPlaceholder = "*No messages found in the file.*"

// Header writes the document title followed by a blank line.
func Header(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n\n", DocumentTitle)
	return err
}

// ErrorSection writes an "## Error" section with a one-line description.
// Used when the input could not be parsed or lacks a messages list.
func ErrorSection(w io.Writer, description string) error {
	_, err := fmt.Fprintf(w, "## Error\n\n%s\n", description)
	return err
}

// NoMessages writes the empty-conversation placeholder line.
func NoMessages(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n", NoMessagesPlaceholder)
	return err
}

// Message writes one message section: a level-2 heading with the author
// label, a blank line, the body lines, then a trailing blank line.
func Message(w io.Writer, m export.Message) error {
	if _, err := fmt.Fprintf(w, "## %s\n\n", m.Author.Heading()); err != nil {
		return err
	}
	for _, line := range m.Content.BodyLines() {
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
