// Package scene holds the invitation document model: sections, layers and
// the camera choreography attached to them. Every type here serializes to the
// JSON shape the editor frontends persist.
package scene

import (
	"encoding/json"
	"sort"
)

// Logical canvas size. Every coordinate in a document is in this mobile-portrait frame.
const (
	CanvasWidth  = 414.0
	CanvasHeight = 896.0

	MinZoom = 0.1
	MaxZoom = 5.0

	DefaultTransitionDuration = 800
)

type DocumentType string

const (
	TypeInvitation DocumentType = "invitation"
	TypeDisplay    DocumentType = "display"
)

func (t DocumentType) Valid() bool {
	return t == TypeInvitation || t == TypeDisplay
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Document is the top-level invitation or template aggregate.
type Document struct {
	ID            string       `json:"id"`
	Slug          string       `json:"slug"`
	Name          string       `json:"name"`
	Category      string       `json:"category,omitempty"`
	Type          DocumentType `json:"type"`
	Zoom          float64      `json:"zoom"`
	Pan           Point        `json:"pan"`
	Sections      []Section    `json:"sections"`
	Layers        []Layer      `json:"layers"`
	Orbit         Orbit        `json:"orbit"`
	Music         Music        `json:"music"`
	Published     bool         `json:"isPublished"`
	Event         EventInfo    `json:"event"`
	SEO           SEO          `json:"seo"`
	ThumbnailURL  string       `json:"thumbnailUrl,omitempty"`
	ActiveTrigger *Trigger     `json:"activeTrigger,omitempty"`
}

// NewDocument returns an empty document ready for editing.
func NewDocument(id, slug, name string, docType DocumentType) *Document {
	return &Document{
		ID:       id,
		Slug:     slug,
		Name:     name,
		Type:     docType,
		Zoom:     1,
		Sections: []Section{},
		Layers:   []Layer{},
		Orbit:    Orbit{},
	}
}

// SortedSections returns the sections in render/scroll order. Ties keep their stored order.
func (d *Document) SortedSections() []Section {
	out := make([]Section, len(d.Sections))
	copy(out, d.Sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (d *Document) SectionIndex(id string) int {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone deep-copies the document through its JSON form.
func (d *Document) Clone() (*Document, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Section is one scrollable slide of an invitation.
type Section struct {
	ID              string     `json:"id"`
	Key             string     `json:"key"`
	Title           string     `json:"title"`
	Order           int        `json:"order"`
	IsVisible       bool       `json:"isVisible"`
	BackgroundColor string     `json:"backgroundColor"`
	BackgroundURL   string     `json:"backgroundUrl,omitempty"`
	OverlayOpacity  float64    `json:"overlayOpacity"`
	Animation       string     `json:"animation,omitempty"`
	Elements        []Layer    `json:"elements"`
	ZoomConfig      ZoomConfig `json:"zoomConfig"`
}

// ZoomConfig is the per-section camera choreography.
// A nil SelectedPointIndex means no point is selected and the camera is identity.
type ZoomConfig struct {
	Points             []ZoomPoint `json:"points"`
	SelectedPointIndex *int        `json:"selectedPointIndex"`
	TransitionDuration int         `json:"transitionDuration"`
}

// Selected returns the selected zoom point, if any.
func (z ZoomConfig) Selected() (ZoomPoint, bool) {
	if z.SelectedPointIndex == nil {
		return ZoomPoint{}, false
	}
	i := *z.SelectedPointIndex
	if i < 0 || i >= len(z.Points) {
		return ZoomPoint{}, false
	}
	return z.Points[i], true
}

func (z ZoomConfig) Duration() int {
	if z.TransitionDuration <= 0 {
		return DefaultTransitionDuration
	}
	return z.TransitionDuration
}

type ZoomPoint struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	TargetRegion Rect   `json:"targetRegion"`
}

// MotionPathConfig is an ordered trajectory in canvas space. An empty list means no path yet.
type MotionPathConfig struct {
	Points   []Point `json:"points"`
	Duration int     `json:"duration,omitempty"`
	Loop     bool    `json:"loop,omitempty"`
}

// Orbit holds the side camera rigs keyed by side ("left", "right").
type Orbit map[string]OrbitRig

type OrbitRig struct {
	Enabled         bool           `json:"enabled"`
	BackgroundColor string         `json:"backgroundColor,omitempty"`
	BackgroundURL   string         `json:"backgroundUrl,omitempty"`
	Elements        []OrbitElement `json:"elements,omitempty"`
}

// OrbitElement is a decorative element on a side rig. It is not a Layer and never
// takes part in layer ownership.
type OrbitElement struct {
	ID       string  `json:"id"`
	ImageURL string  `json:"imageUrl"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"`
	Depth    float64 `json:"depth,omitempty"`
}

type Music struct {
	URL      string  `json:"url,omitempty"`
	Title    string  `json:"title,omitempty"`
	Autoplay bool    `json:"autoplay"`
	Loop     bool    `json:"loop"`
	StartAt  float64 `json:"startAt,omitempty"`
}

type EventInfo struct {
	Date     string `json:"date,omitempty"`
	Location string `json:"location,omitempty"`
	Venue    string `json:"venue,omitempty"`
	MapsURL  string `json:"mapsUrl,omitempty"`
}

type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Trigger is a broadcast interaction. Timestamp is unix milliseconds and orders triggers.
type Trigger struct {
	Effect    string `json:"effect"`
	Name      string `json:"name,omitempty"`
	Style     string `json:"style,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
