// Package codec converts between scene documents and storage records.
//
// Nested structures travel as JSON text columns. Decoding is tolerant per
// field: a corrupt column is replaced by a typed empty value and reported as a
// FieldError, and the rest of the document still loads.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/scene"
)

// FieldError reports one column that could not be decoded.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

func encodeJSON(field string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", field, err)
	}
	return string(b), nil
}

// Encode serialises doc into a record. Both orbit columns carry the same value.
func Encode(doc *scene.Document) (domain.Record, error) {
	rec := domain.Record{
		ID:             doc.ID,
		Slug:           doc.Slug,
		Name:           doc.Name,
		Category:       doc.Category,
		Type:           string(doc.Type),
		Zoom:           doc.Zoom,
		IsPublished:    doc.Published,
		EventDate:      doc.Event.Date,
		EventLocation:  doc.Event.Location,
		EventVenue:     doc.Event.Venue,
		MapsURL:        doc.Event.MapsURL,
		SEOTitle:       doc.SEO.Title,
		SEODescription: doc.SEO.Description,
		SEOImageURL:    doc.SEO.ImageURL,
		ThumbnailURL:   doc.ThumbnailURL,
	}

	sections := doc.Sections
	if sections == nil {
		sections = []scene.Section{}
	}
	layers := doc.Layers
	if layers == nil {
		layers = []scene.Layer{}
	}
	orbit := doc.Orbit
	if orbit == nil {
		orbit = scene.Orbit{}
	}

	var err error
	if rec.Pan, err = encodeJSON("pan", doc.Pan); err != nil {
		return domain.Record{}, err
	}
	if rec.Sections, err = encodeJSON("sections", sections); err != nil {
		return domain.Record{}, err
	}
	if rec.Layers, err = encodeJSON("layers", layers); err != nil {
		return domain.Record{}, err
	}
	if rec.Orbit, err = encodeJSON("orbit", orbit); err != nil {
		return domain.Record{}, err
	}
	rec.OrbitLayers = rec.Orbit
	if rec.Music, err = encodeJSON("music", doc.Music); err != nil {
		return domain.Record{}, err
	}
	if doc.ActiveTrigger != nil {
		if rec.ActiveTrigger, err = encodeJSON("active_trigger", doc.ActiveTrigger); err != nil {
			return domain.Record{}, err
		}
	}
	return rec, nil
}

// blank reports a column that was never written.
func blank(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || s == "null"
}

// decodeField unmarshals raw into v. Blank columns leave v at its default.
func decodeField(field, raw string, v any, errs *[]FieldError) bool {
	if blank(raw) {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		*errs = append(*errs, FieldError{Field: field, Err: err})
		return false
	}
	return true
}

// decodeList decodes a JSON array element by element so one bad entry only drops that entry.
func decodeList[T any](field, raw string, errs *[]FieldError) []T {
	out := []T{}
	var items []json.RawMessage
	if !decodeField(field, raw, &items, errs) {
		return out
	}
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			*errs = append(*errs, FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Err: err})
			continue
		}
		out = append(out, v)
	}
	return out
}

// rawSection defers its elements so each layer is decoded on its own.
type rawSection struct {
	scene.Section
	Elements []json.RawMessage `json:"elements"`
}

// decodeSections drops a bad section or a bad element without losing its siblings.
func decodeSections(field, raw string, errs *[]FieldError) []scene.Section {
	out := []scene.Section{}
	var items []json.RawMessage
	if !decodeField(field, raw, &items, errs) {
		return out
	}
	for i, item := range items {
		var rs rawSection
		if err := json.Unmarshal(item, &rs); err != nil {
			*errs = append(*errs, FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Err: err})
			continue
		}
		sec := rs.Section
		sec.Elements = []scene.Layer{}
		for j, el := range rs.Elements {
			var l scene.Layer
			if err := json.Unmarshal(el, &l); err != nil {
				*errs = append(*errs, FieldError{Field: fmt.Sprintf("%s[%d].elements[%d]", field, i, j), Err: err})
				continue
			}
			sec.Elements = append(sec.Elements, l)
		}
		out = append(out, sec)
	}
	return out
}

func decodeOrbit(field, raw string, errs *[]FieldError) scene.Orbit {
	orbit := scene.Orbit{}
	if !decodeField(field, raw, &orbit, errs) || orbit == nil {
		return scene.Orbit{}
	}
	return orbit
}

// ResolveOrbit returns whichever orbit column is non-empty, preferring orbit.
func ResolveOrbit(orbit, orbitLayers scene.Orbit) scene.Orbit {
	if len(orbit) > 0 {
		return orbit
	}
	if len(orbitLayers) > 0 {
		return orbitLayers
	}
	return scene.Orbit{}
}

// Decode rebuilds a document from rec. The document is always usable; the
// returned errors list the columns that fell back to defaults.
func Decode(rec domain.Record) (*scene.Document, []FieldError) {
	var errs []FieldError

	docType := scene.DocumentType(rec.Type)
	if !docType.Valid() {
		docType = scene.TypeInvitation
	}
	doc := scene.NewDocument(rec.ID, rec.Slug, rec.Name, docType)
	doc.Category = rec.Category
	doc.Published = rec.IsPublished
	doc.Event = scene.EventInfo{Date: rec.EventDate, Location: rec.EventLocation, Venue: rec.EventVenue, MapsURL: rec.MapsURL}
	doc.SEO = scene.SEO{Title: rec.SEOTitle, Description: rec.SEODescription, ImageURL: rec.SEOImageURL}
	doc.ThumbnailURL = rec.ThumbnailURL
	if rec.Zoom > 0 {
		doc.Zoom = rec.Zoom
	}

	var pan scene.Point
	if decodeField("pan", rec.Pan, &pan, &errs) {
		doc.Pan = pan
	}
	doc.Sections = decodeSections("sections", rec.Sections, &errs)
	doc.Layers = decodeList[scene.Layer]("layers", rec.Layers, &errs)
	doc.Orbit = ResolveOrbit(
		decodeOrbit("orbit", rec.Orbit, &errs),
		decodeOrbit("orbit_layers", rec.OrbitLayers, &errs),
	)
	var music scene.Music
	if decodeField("music", rec.Music, &music, &errs) {
		doc.Music = music
	}

	var trigger scene.Trigger
	if decodeField("active_trigger", rec.ActiveTrigger, &trigger, &errs) {
		doc.ActiveTrigger = &trigger
	}
	return doc, errs
}

// AliasOrbit copies the non-empty orbit column onto the other one in place.
func AliasOrbit(rec *domain.Record) {
	var discard []FieldError
	orbit := ResolveOrbit(
		decodeOrbit("orbit", rec.Orbit, &discard),
		decodeOrbit("orbit_layers", rec.OrbitLayers, &discard),
	)
	if len(orbit) == 0 {
		return
	}
	raw, err := json.Marshal(orbit)
	if err != nil {
		return
	}
	rec.Orbit = string(raw)
	rec.OrbitLayers = string(raw)
}
