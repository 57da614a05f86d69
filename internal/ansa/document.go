package ansa

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Metadata field names in a photo archive document.
const (
	FieldID          = "idAnsa"
	FieldStatus      = "status"
	FieldTitle       = "title_B"
	FieldDescription = "description_B"
	FieldContentBy   = "contentBy"
	FieldPubDate     = "pubDate_N"
	FieldCreditLine  = "creditline"
	FieldMD5         = "orientationMD5"
	FieldCity        = "city"
	FieldCountry     = "ctrName"

	statusPrefix = "stat:"
)

type searchResponse struct {
	RenderResult struct {
		Documents []Document `json:"documents"`
	} `json:"renderResult"`
}

// Document is one archive search hit.
type Document struct {
	MetadataMap map[string]MetaField `json:"metadataMap"`
}

type MetaField struct {
	FieldValues []MetaValue `json:"fieldValues"`
}

type MetaValue struct {
	Value any `json:"value"`
}

// Meta returns metadataMap.<field>.fieldValues[0].value. The second result is
// false when any step of the path is missing or the value is null.
func Meta(doc Document, field string) (any, bool) {
	if doc.MetadataMap == nil {
		return nil, false
	}
	entry, ok := doc.MetadataMap[field]
	if !ok || len(entry.FieldValues) == 0 {
		return nil, false
	}
	value := entry.FieldValues[0].Value
	if value == nil {
		return nil, false
	}
	return value, true
}

// MetaString is Meta rendered as a string, or nil when absent.
func MetaString(doc Document, field string) *string {
	value, ok := Meta(doc, field)
	if !ok {
		return nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	return &s
}

// MetaTime parses the field with dateparse. Digit strings are read as unix
// seconds, milliseconds or yyyymmddhhmmss depending on their length. The
// result is nil when the field is absent or unparseable.
func MetaTime(doc Document, field string) (*time.Time, error) {
	raw := MetaString(doc, field)
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := dateparse.ParseIn(trimmed, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse %s=%q: %w", field, trimmed, err)
	}
	utc := parsed.UTC()
	return &utc, nil
}

func stripStatusPrefix(status *string) *string {
	if status == nil {
		return nil
	}
	stripped := strings.ReplaceAll(*status, statusPrefix, "")
	return &stripped
}
