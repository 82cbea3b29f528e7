// Package vcf renders contacts as vCard 3.0 text cards.
//
// Rendering is best-effort per contact: Cards yields one result per contact
// and leaves the skip policy to the caller.
package vcf

import (
	"bytes"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/deppfellow/contactbook/internal/model"
)

// ContentType is the media type of a rendered document.
const ContentType = "text/vcard; charset=utf-8"

// noteDateLayout is the short US date used in the note, e.g. 3/7/2024.
const noteDateLayout = "1/2/2006"

// Renderer turns one contact into its text card.
type Renderer interface {
	Render(c model.Contact) ([]byte, error)
}

// Encoder is the Renderer backed by go-vcard.
type Encoder struct {
	// Attribution starts the note of every card.
	Attribution string
}

var _ Renderer = Encoder{}

// Card is a successfully rendered contact.
type Card struct {
	ContactID string
	Data      []byte
}

// RenderError reports a contact that could not be rendered.
type RenderError struct {
	Index     int
	ContactID string
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render contact %d (%s): %v", e.Index, e.ContactID, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Render builds the vCard of c.
//
// The first word of the name becomes the given name, the remaining words the
// family name. A ";" separates N components, so it counts as a space here.
// The digits of the number are set as both cell and work phone. A contact
// with neither still renders, with an empty name and the note.
func (e Encoder) Render(c model.Contact) ([]byte, error) {
	words := strings.Fields(strings.ReplaceAll(c.FullName, ";", " "))
	digits := model.Digits(c.Number)

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "3.0")

	name := &vcard.Name{}
	if len(words) > 0 {
		name.GivenName = words[0]
		name.FamilyName = strings.Join(words[1:], " ")
	}
	card.SetName(name)
	card.SetValue(vcard.FieldFormattedName, strings.Join(words, " "))

	if digits != "" {
		for _, phoneType := range []string{vcard.TypeCell, vcard.TypeWork} {
			card.Add(vcard.FieldTelephone, &vcard.Field{
				Value:  digits,
				Params: vcard.Params{vcard.ParamType: {phoneType}},
			})
		}
	}

	card.SetValue(vcard.FieldNote, e.note(c.Timestamp))

	var buf bytes.Buffer
	if err := vcard.NewEncoder(&buf).Encode(card); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e Encoder) note(timestamp string) string {
	if timestamp == "" {
		return e.Attribution
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, timestamp); err == nil {
			return e.Attribution + " on " + ts.UTC().Format(noteDateLayout)
		}
	}
	return e.Attribution
}

// Stored timestamps are ISO-8601; hand-edited files sometimes hold a bare date.
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", time.DateOnly}

// Cards lazily renders contacts in order. Each step yields either a Card or
// a *RenderError, never both.
func Cards(contacts []model.Contact, r Renderer) iter.Seq2[Card, error] {
	return func(yield func(Card, error) bool) {
		for i, c := range contacts {
			data, err := r.Render(c)
			if err != nil {
				if !yield(Card{}, &RenderError{Index: i, ContactID: c.ID, Err: err}) {
					return
				}
				continue
			}
			if !yield(Card{ContactID: c.ID, Data: data}, nil) {
				return
			}
		}
	}
}

// Join concatenates rendered cards with newline separators.
func Join(cards []Card) []byte {
	parts := make([][]byte, 0, len(cards))
	for _, card := range cards {
		parts = append(parts, card.Data)
	}
	return bytes.Join(parts, []byte("\n"))
}
