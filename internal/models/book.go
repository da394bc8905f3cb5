package models

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Book identifies a selectable source text. The filename doubles as display key and request parameter.
type Book struct {
	Filename string `json:"filename" validate:"required"`
}

// Title returns the filename without its extension.
func (b Book) Title() string {
	return strings.TrimSuffix(b.Filename, filepath.Ext(b.Filename))
}

// Length is the requested story length.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Lengths lists every accepted [Length] in display order.
var Lengths = []Length{LengthShort, LengthMedium, LengthLong}

// Style is the requested narrative style.
type Style string

const (
	StyleSame      Style = "same"
	StyleModern    Style = "modern"
	StyleDramatic  Style = "dramatic"
	StylePoetic    Style = "poetic"
	StyleWhimsical Style = "whimsical"
)

// Styles lists every accepted [Style] in display order.
var Styles = []Style{StyleSame, StyleModern, StyleDramatic, StylePoetic, StyleWhimsical}

// GenerationRequest is built fresh for every generation attempt and never mutated after it is sent.
type GenerationRequest struct {
	BookFilename string `json:"book_filename" validate:"required"`
	Length       Length `json:"length" validate:"required,oneof=short medium long"`
	Style        Style  `json:"style" validate:"required,oneof=same modern dramatic poetic whimsical"`
}

// NewGenerationRequest builds and validates a request for book.
func NewGenerationRequest(book Book, length Length, style Style) (GenerationRequest, error) {
	req := GenerationRequest{
		BookFilename: book.Filename,
		Length:       length,
		Style:        style,
	}
	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return req, nil
}

// Validate checks the request against its struct tags.
func (r GenerationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid generation request: %w", err)
	}
	return nil
}

// Query encodes the request as the streaming endpoint's query string.
func (r GenerationRequest) Query() url.Values {
	q := url.Values{}
	q.Set("book_filename", r.BookFilename)
	q.Set("length", string(r.Length))
	q.Set("style", string(r.Style))
	return q
}
