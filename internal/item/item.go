// Package item holds the platform's item schema as seen by the plugins.
package item

import "time"

const (
	TypePicture = "picture"
	TypeText    = "text"

	RenditionThumbnail = "thumbnail"
	RenditionViewImage = "viewImage"
	RenditionBaseImage = "baseImage"
	RenditionOriginal  = "original"
)

// Rendition is one stored or remote variant of a media item.
type Rendition struct {
	Href     string `json:"href"`
	MimeType string `json:"mimetype"`
	Height   *int   `json:"height,omitempty"`
	Width    *int   `json:"width,omitempty"`
	Media    string `json:"media,omitempty"`
}

// Place is a named geographic reference. A nil Name means the source had none.
type Place struct {
	Name *string `json:"name"`
}

// Item is the subset of the platform item the plugins read and write.
// Pointer fields are null when the source did not provide them. Metadata
// fields stay in the JSON form as null; fetch_endpoint is only written once set.
type Item struct {
	ID              *string              `json:"_id"`
	GUID            *string              `json:"guid"`
	Type            string               `json:"type,omitempty"`
	PubStatus       *string              `json:"pubstatus"`
	Language        string               `json:"language,omitempty"`
	Headline        *string              `json:"headline"`
	DescriptionText *string              `json:"description_text"`
	BodyHTML        string               `json:"body_html,omitempty"`
	Byline          *string              `json:"byline"`
	FirstCreated    *time.Time           `json:"firstcreated"`
	VersionCreated  *time.Time           `json:"versioncreated"`
	CreditLine      *string              `json:"creditline"`
	Source          *string              `json:"source"`
	Renditions      map[string]Rendition `json:"renditions,omitempty"`
	Place           []Place              `json:"place,omitempty"`
	FetchEndpoint   *string              `json:"fetch_endpoint,omitempty"`
}

// Rendition returns the named rendition and whether it has an href.
func (i *Item) Rendition(name string) (Rendition, bool) {
	if i == nil || i.Renditions == nil {
		return Rendition{}, false
	}
	r, ok := i.Renditions[name]
	return r, ok && r.Href != ""
}

// SetRendition stores r under name, allocating the map when needed.
func (i *Item) SetRendition(name string, r Rendition) {
	if i.Renditions == nil {
		i.Renditions = make(map[string]Rendition, 4)
	}
	i.Renditions[name] = r
}

// StringOrEmpty dereferences an optional string field.
func StringOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
