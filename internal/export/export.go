// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export parses Vertex AI Studio conversation exports. An export is
// a JSON object with an optional free-text "context" field and a "messages"
// list. Messages are loosely shaped: the author may live under "author" or
// "role", and the body under "content" (plain string or a parts object) or
// "text". Resolution collapses those alternatives into explicit Author and
// Content values.
package export

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

var (
	// ErrParse indicates the input is not valid JSON.
	ErrParse = errors.New("input is not valid JSON")

	// ErrInvalidShape indicates the input parsed but has no usable
	// "messages" list.
	ErrInvalidShape = errors.New("input does not contain a 'messages' list")
)

// MalformedMessageError reports a message whose content cannot be resolved:
// structured content without a parts list, a part without text, or a content
// value that is neither a string nor a parts object. Index is 1-based.
type MalformedMessageError struct {
	Index  int
	Reason string
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("message %d is malformed: %s", e.Index, e.Reason)
}

// MissingContentPlaceholder is the rendered body for a message that carries
// neither a "content" nor a "text" field.
const MissingContentPlaceholder = "*No text content found in this message.*"

// ContentKind discriminates the resolved content variants.
type ContentKind int

const (
	// ContentPlain is a flat string body from "content" or "text".
	ContentPlain ContentKind = iota
	// ContentStructured is a parts object under "content".
	ContentStructured
	// ContentMissing means neither "content" nor "text" was present.
	ContentMissing
)

// Content is the resolved body of a message.
type Content struct {
	Kind  ContentKind
	Text  string   // set for ContentPlain
	Parts []string // set for ContentStructured, one entry per part text
}

// BodyLines returns the Markdown body of the content, one line per entry.
func (c Content) BodyLines() []string {
	switch c.Kind {
	case ContentStructured:
		return c.Parts
	case ContentPlain:
		return []string{c.Text}
	default:
		return []string{MissingContentPlaceholder}
	}
}

// Author is the resolved author of a message. Named is false when neither
// an "author" nor a "role" field was present; Index then holds the message's
// 1-based position for the synthesized label.
type Author struct {
	Named bool
	Label string
	Index int
}

// Heading returns the author label used for the message's section heading.
func (a Author) Heading() string {
	if a.Named {
		return a.Label
	}
	return fmt.Sprintf("Message %d (Unknown Author)", a.Index)
}

// Message is one resolved conversation turn.
type Message struct {
	Author  Author
	Content Content
}

// Document is a parsed export whose messages have not yet been resolved.
// Resolution is deferred so callers can process messages in order and stop
// at the first malformed one.
type Document struct {
	Context string
	raw     []gjson.Result
}

// Parse validates data as an export document. It returns ErrParse for
// invalid JSON and ErrInvalidShape when the root is not an object holding a
// "messages" list. An empty messages list is valid.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrParse
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrInvalidShape
	}
	messages := root.Get("messages")
	if !messages.IsArray() {
		return nil, ErrInvalidShape
	}
	return &Document{
		Context: root.Get("context").String(),
		raw:     messages.Array(),
	}, nil
}

// Len returns the number of messages in the document.
func (d *Document) Len() int {
	return len(d.raw)
}

// Message resolves the message at position i (0-based). The returned error,
// if any, is a *MalformedMessageError carrying the 1-based index.
func (d *Document) Message(i int) (Message, error) {
	return resolveMessage(i+1, d.raw[i])
}

// Messages resolves every message in order, stopping at the first
// malformed one.
func (d *Document) Messages() ([]Message, error) {
	out := make([]Message, 0, len(d.raw))
	for i := range d.raw {
		m, err := d.Message(i)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// resolveMessage applies the field fallback order: author before role for
// the label, content before text for the body. index is 1-based.
func resolveMessage(index int, m gjson.Result) (Message, error) {
	var author Author
	switch {
	case m.Get("author").Exists():
		author = Author{Named: true, Label: capitalize(m.Get("author").String())}
	case m.Get("role").Exists():
		author = Author{Named: true, Label: capitalize(m.Get("role").String())}
	default:
		author = Author{Index: index}
	}

	content, err := resolveContent(index, m)
	if err != nil {
		return Message{}, err
	}
	return Message{Author: author, Content: content}, nil
}

func resolveContent(index int, m gjson.Result) (Content, error) {
	content := m.Get("content")
	if content.Exists() {
		if content.Type == gjson.String {
			return Content{Kind: ContentPlain, Text: content.String()}, nil
		}
		if content.IsObject() {
			return resolveParts(index, content)
		}
		return Content{}, &MalformedMessageError{
			Index:  index,
			Reason: "content is neither a string nor a parts object",
		}
	}

	text := m.Get("text")
	if text.Exists() {
		if text.Type != gjson.String {
			return Content{}, &MalformedMessageError{
				Index:  index,
				Reason: "text field is not a string",
			}
		}
		return Content{Kind: ContentPlain, Text: text.String()}, nil
	}

	return Content{Kind: ContentMissing}, nil
}

func resolveParts(index int, content gjson.Result) (Content, error) {
	parts := content.Get("parts")
	if !parts.IsArray() {
		return Content{}, &MalformedMessageError{
			Index:  index,
			Reason: "structured content has no 'parts' list",
		}
	}

	list := parts.Array()
	texts := make([]string, len(list))
	for i, part := range list {
		text := part.Get("text")
		if !text.Exists() {
			return Content{}, &MalformedMessageError{
				Index:  index,
				Reason: fmt.Sprintf("part %d has no 'text' field", i+1),
			}
		}
		texts[i] = text.String()
	}
	return Content{Kind: ContentStructured, Parts: texts}, nil
}

// capitalize upper-cases the first rune and lower-cases the rest, so "user"
// and "MODEL" both render as heading-friendly labels.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
