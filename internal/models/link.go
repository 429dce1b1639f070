package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Named link type kinds.
const (
	LinkRelated     = "Related"
	LinkReference   = "Reference"
	LinkFollowUp    = "FollowUp"
	LinkContradicts = "Contradicts"
	LinkSupports    = "Supports"
	linkCustom      = "Custom"
)

// LinkType is a tagged variant: one of the five named kinds, or a Custom
// case carrying an arbitrary label. On the wire, named kinds are bare
// strings ("Related") and the custom case is {"Custom":"label"}, matching
// the format older stores were written in.
type LinkType struct {
	Kind   string
	Custom string
}

// ParseLinkType maps a raw string to a LinkType. Unrecognized values become
// the Custom variant carrying the original string.
func ParseLinkType(s string) LinkType {
	switch s {
	case LinkRelated, LinkReference, LinkFollowUp, LinkContradicts, LinkSupports:
		return LinkType{Kind: s}
	default:
		return LinkType{Kind: linkCustom, Custom: s}
	}
}

// IsCustom reports whether t is the open-ended variant.
func (t LinkType) IsCustom() bool { return t.Kind == linkCustom }

// Equal compares variants by tag, and by payload for the custom case. This
// is the equality used for duplicate-link detection.
func (t LinkType) Equal(o LinkType) bool {
	return t.Kind == o.Kind && t.Custom == o.Custom
}

// String returns the display form of the link type.
func (t LinkType) String() string {
	if t.IsCustom() {
		return t.Custom
	}
	return t.Kind
}

// MarshalJSON encodes named kinds as bare strings and the custom case as a
// single-key object.
func (t LinkType) MarshalJSON() ([]byte, error) {
	if t.IsCustom() {
		return json.Marshal(map[string]string{linkCustom: t.Custom})
	}
	return json.Marshal(t.Kind)
}

// UnmarshalJSON accepts both encodings. A bare string that is not a named
// kind decodes as Custom, so hand-edited stores still load.
func (t *LinkType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ParseLinkType(s)
		return nil
	}
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("link type: %w", err)
	}
	custom, ok := obj[linkCustom]
	if !ok {
		return fmt.Errorf("link type: unknown variant %s", data)
	}
	*t = LinkType{Kind: linkCustom, Custom: custom}
	return nil
}

// LinkColor is the fixed palette for link rendering.
type LinkColor string

// Palette values.
const (
	LinkColorPurple LinkColor = "Purple"
	LinkColorYellow LinkColor = "Yellow"
)

// ParseLinkColor maps a raw color string to the palette. Unrecognized
// colors yield nil rather than an error.
func ParseLinkColor(s string) *LinkColor {
	switch s {
	case "purple":
		c := LinkColorPurple
		return &c
	case "yellow":
		c := LinkColorYellow
		return &c
	default:
		return nil
	}
}

// NoteLink is a typed edge between two notes. Direction is retained but
// duplicate detection treats (source, target) as an unordered pair.
type NoteLink struct {
	ID          string     `json:"id"`
	SourceID    string     `json:"source_id"`
	TargetID    string     `json:"target_id"`
	LinkType    LinkType   `json:"link_type"`
	Label       *string    `json:"label"`
	Color       *LinkColor `json:"color"`
	Directional *bool      `json:"directional"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LinksDocument is the persisted shape of the links collection.
type LinksDocument struct {
	Links []NoteLink `json:"links"`
}
