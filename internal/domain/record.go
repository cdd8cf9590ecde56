// Package domain holds the storage records shared by the API server and its clients.
package domain

import "time"

// Collection names one of the tables holding document records.
type Collection string

const (
	CollectionInvitations    Collection = "invitations"
	CollectionTemplates      Collection = "templates"
	CollectionDisplayDesigns Collection = "user_display_designs"
)

func Collections() []Collection {
	return []Collection{CollectionInvitations, CollectionTemplates, CollectionDisplayDesigns}
}

func (c Collection) Valid() bool {
	for _, known := range Collections() {
		if c == known {
			return true
		}
	}
	return false
}

// Fallback is the table tried when a lookup in c finds nothing.
func (c Collection) Fallback() Collection {
	switch c {
	case CollectionInvitations:
		return CollectionTemplates
	case CollectionTemplates:
		return CollectionInvitations
	default:
		return ""
	}
}

// Record is the persisted row of an invitation, template or display design.
// Nested structures are stored as opaque JSON text.
type Record struct {
	ID          string  `json:"id" gorm:"primaryKey;size:64"`
	Slug        string  `json:"slug" gorm:"size:160;not null"`
	UserID      uint64  `json:"user_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Type        string  `json:"type" gorm:"size:32"`
	Zoom        float64 `json:"zoom"`
	IsPublished bool    `json:"is_published"`

	EventDate     string `json:"event_date"`
	EventLocation string `json:"event_location"`
	EventVenue    string `json:"event_venue"`
	MapsURL       string `json:"maps_url"`

	SEOTitle       string `json:"seo_title"`
	SEODescription string `json:"seo_description"`
	SEOImageURL    string `json:"seo_image_url"`
	ThumbnailURL   string `json:"thumbnail_url"`

	Pan           string `json:"pan" gorm:"type:text"`
	Sections      string `json:"sections" gorm:"type:text"`
	Layers        string `json:"layers" gorm:"type:text"`
	Orbit         string `json:"orbit" gorm:"type:text"`
	OrbitLayers   string `json:"orbit_layers" gorm:"type:text"`
	Music         string `json:"music" gorm:"type:text"`
	ActiveTrigger string `json:"active_trigger" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Record) TableName() string {
	return string(CollectionInvitations)
}

// RecordPatch is a partial update. Nil fields leave the stored value unchanged.
type RecordPatch struct {
	Slug        *string  `json:"slug,omitempty" binding:"omitempty,slug"`
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Type        *string  `json:"type,omitempty" binding:"omitempty,oneof=invitation display"`
	Zoom        *float64 `json:"zoom,omitempty"`
	IsPublished *bool    `json:"is_published,omitempty"`

	EventDate     *string `json:"event_date,omitempty"`
	EventLocation *string `json:"event_location,omitempty"`
	EventVenue    *string `json:"event_venue,omitempty"`
	MapsURL       *string `json:"maps_url,omitempty"`

	SEOTitle       *string `json:"seo_title,omitempty"`
	SEODescription *string `json:"seo_description,omitempty"`
	SEOImageURL    *string `json:"seo_image_url,omitempty"`
	ThumbnailURL   *string `json:"thumbnail_url,omitempty"`

	Pan           *string `json:"pan,omitempty"`
	Sections      *string `json:"sections,omitempty"`
	Layers        *string `json:"layers,omitempty"`
	Orbit         *string `json:"orbit,omitempty"`
	OrbitLayers   *string `json:"orbit_layers,omitempty"`
	Music         *string `json:"music,omitempty"`
	ActiveTrigger *string `json:"active_trigger,omitempty"`
}

// Columns maps the set fields to their column names.
func (p RecordPatch) Columns() map[string]any {
	cols := map[string]any{}
	str := func(col string, v *string) {
		if v != nil {
			cols[col] = *v
		}
	}

	str("slug", p.Slug)
	str("name", p.Name)
	str("category", p.Category)
	str("type", p.Type)
	if p.Zoom != nil {
		cols["zoom"] = *p.Zoom
	}
	if p.IsPublished != nil {
		cols["is_published"] = *p.IsPublished
	}
	str("event_date", p.EventDate)
	str("event_location", p.EventLocation)
	str("event_venue", p.EventVenue)
	str("maps_url", p.MapsURL)
	str("seo_title", p.SEOTitle)
	str("seo_description", p.SEODescription)
	str("seo_image_url", p.SEOImageURL)
	str("thumbnail_url", p.ThumbnailURL)
	str("pan", p.Pan)
	str("sections", p.Sections)
	str("layers", p.Layers)
	str("orbit", p.Orbit)
	str("orbit_layers", p.OrbitLayers)
	str("music", p.Music)
	str("active_trigger", p.ActiveTrigger)
	return cols
}

func ptr[T any](v T) *T { return &v }

// FullPatch sets every content column of r. It is what a client save sends.
func FullPatch(r Record) RecordPatch {
	return RecordPatch{
		Slug:           ptr(r.Slug),
		Name:           ptr(r.Name),
		Category:       ptr(r.Category),
		Type:           ptr(r.Type),
		Zoom:           ptr(r.Zoom),
		IsPublished:    ptr(r.IsPublished),
		EventDate:      ptr(r.EventDate),
		EventLocation:  ptr(r.EventLocation),
		EventVenue:     ptr(r.EventVenue),
		MapsURL:        ptr(r.MapsURL),
		SEOTitle:       ptr(r.SEOTitle),
		SEODescription: ptr(r.SEODescription),
		SEOImageURL:    ptr(r.SEOImageURL),
		ThumbnailURL:   ptr(r.ThumbnailURL),
		Pan:            ptr(r.Pan),
		Sections:       ptr(r.Sections),
		Layers:         ptr(r.Layers),
		Orbit:          ptr(r.Orbit),
		OrbitLayers:    ptr(r.OrbitLayers),
		Music:          ptr(r.Music),
	}
}
