package model

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the control a field renders as.
type Kind string

const (
	KindText         Kind = "text"
	KindInput        Kind = "input"
	KindTextarea     Kind = "textarea"
	KindEditor       Kind = "editor"
	KindCheckbox     Kind = "checkbox"
	KindRadio        Kind = "radio"
	KindSelect       Kind = "select"
	KindColor        Kind = "color"
	KindUpload       Kind = "upload"
	KindImage        Kind = "image"
	KindImageGallery Kind = "image_gallery"
	KindHTML         Kind = "html"
)

// ErrUnknownKind is returned when a kind string does not name a known control.
var ErrUnknownKind = errors.New("model: unknown field kind")

var allKinds = []Kind{
	KindText,
	KindInput,
	KindTextarea,
	KindEditor,
	KindCheckbox,
	KindRadio,
	KindSelect,
	KindColor,
	KindUpload,
	KindImage,
	KindImageGallery,
	KindHTML,
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return append([]Kind(nil), allKinds...)
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// HasOptions reports whether fields of this kind carry an option list. Radio
// and select treat options as (value, label) choices; the editor reads them as
// widget settings.
func (k Kind) HasOptions() bool {
	switch k {
	case KindRadio, KindSelect, KindEditor:
		return true
	default:
		return false
	}
}

// ParseKind converts a kind name into a Kind. "image_plupload" is accepted as
// an alias for image_gallery.
func ParseKind(raw string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "image_plupload" {
		return KindImageGallery, nil
	}
	kind := Kind(name)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
	}
	return kind, nil
}
