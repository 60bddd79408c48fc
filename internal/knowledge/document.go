// Package knowledge holds the server rules document the assistant answers
// from, along with the support contacts every fallback message points to.
package knowledge

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:embed rules.md
var defaultRules string

// ErrEmptyDocument indicates a knowledge document with no usable text.
var ErrEmptyDocument = errors.New("knowledge document is empty")

// Contacts are the chat mentions used when a question has to be redirected
// to a human.
type Contacts struct {
	SupportChannel string
	Moderators     []string
}

// DefaultContacts returns the support channel and moderators named in the
// embedded rules document.
func DefaultContacts() Contacts {
	return Contacts{
		SupportChannel: "<#1379815484056277044>",
		Moderators:     []string{"<@703280080213901342>", "<@772380971940184064>"},
	}
}

// PrimaryModerator returns the first configured moderator mention, or a
// generic reference when none is configured.
func (c Contacts) PrimaryModerator() string {
	if len(c.Moderators) == 0 {
		return "a moderator"
	}
	return c.Moderators[0]
}

// ModeratorList joins all moderator mentions as "A or B".
func (c Contacts) ModeratorList() string {
	if len(c.Moderators) == 0 {
		return "a moderator"
	}
	return strings.Join(c.Moderators, " or ")
}

func (c Contacts) clone() Contacts {
	out := Contacts{SupportChannel: c.SupportChannel}
	out.Moderators = append([]string(nil), c.Moderators...)
	return out
}

// Document is the immutable rules text. It is safe for concurrent use.
type Document struct {
	text     string
	contacts Contacts
	source   string
}

// New builds a Document from raw text.
func New(text string, contacts Contacts) (*Document, error) {
	return newDocument(text, contacts, "inline")
}

// Default returns the embedded rules document.
func Default(contacts Contacts) *Document {
	doc, err := newDocument(defaultRules, contacts, "embedded")
	if err != nil {
		panic(fmt.Sprintf("embedded rules document: %v", err))
	}
	return doc
}

// Load reads the document from path, or returns the embedded document when
// path is empty.
func Load(path string, contacts Contacts) (*Document, error) {
	if path == "" {
		return Default(contacts), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge file: %w", err)
	}
	return newDocument(string(data), contacts, path)
}

func newDocument(text string, contacts Contacts, source string) (*Document, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyDocument
	}
	if contacts.SupportChannel == "" {
		contacts.SupportChannel = DefaultContacts().SupportChannel
	}
	return &Document{
		text:     text,
		contacts: contacts.clone(),
		source:   source,
	}, nil
}

// Text returns the full document text.
func (d *Document) Text() string { return d.text }

// Source names where the document was loaded from.
func (d *Document) Source() string { return d.source }

// Contacts returns a copy of the document's support contacts.
func (d *Document) Contacts() Contacts { return d.contacts.clone() }

// Headings lists the markdown section headings in document order.
func (d *Document) Headings() []string {
	var headings []string
	for _, line := range strings.Split(d.text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		if heading != "" {
			headings = append(headings, heading)
		}
	}
	return headings
}
