package itemschema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateItemAcceptsTextItem(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`{
		"guid": "tag:example.com:1",
		"type": "text",
		"language": "en",
		"body_html": "<p>Hello</p>",
		"headline": null,
		"versioncreated": "2024-05-01T10:00:00Z"
	}`)

	it, err := ValidateItem(payload)
	if err != nil {
		t.Fatalf("expected valid item, got %v", err)
	}
	if it.Language != "en" || it.BodyHTML != "<p>Hello</p>" {
		t.Fatalf("unexpected decoded item: %+v", it)
	}
	if it.VersionCreated == nil || it.VersionCreated.Year() != 2024 {
		t.Fatalf("expected versioncreated to decode")
	}
}

func TestValidateItemRejectsInvalidPayloads(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{name: "empty", payload: `  `, want: "payload is empty"},
		{name: "not object", payload: `["a"]`, want: "schema validation failed"},
		{name: "wrong body type", payload: `{"body_html": 12}`, want: "schema validation failed"},
		{name: "empty type", payload: `{"type": ""}`, want: "schema validation failed"},
		{name: "bad date", payload: `{"firstcreated": "yesterday"}`, want: "schema validation failed"},
		{name: "rendition without href", payload: `{"renditions": {"original": {"mimetype": "image/jpeg"}}}`, want: "schema validation failed"},
		{name: "trailing content", payload: `{} {}`, want: "trailing content"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateItem(json.RawMessage(tc.payload))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateItemAcceptsAnyItemType(t *testing.T) {
	t.Parallel()

	for _, itemType := range []string{"text", "picture", "audio", "video", "graphic", "composite"} {
		if _, err := ValidateItem(json.RawMessage(`{"type":"` + itemType + `","body_html":"<p>x</p>"}`)); err != nil {
			t.Fatalf("type %s: expected valid item, got %v", itemType, err)
		}
	}
}

func TestDocumentMergeKeepsUnmodeledFields(t *testing.T) {
	t.Parallel()

	doc, err := ValidateDocument(json.RawMessage(`{
		"type": "text",
		"language": "en",
		"slugline": "roma-fire",
		"anpa_category": [{"qcode": "i"}],
		"word_count": 12,
		"headline": "Fire in Rome",
		"versioncreated": "2024-05-01T12:00:00+02:00",
		"body_html": "<p>hi</p>"
	}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	doc.Item.BodyHTML = "<p>ciao</p>"
	merged, err := doc.Merge(doc.Item)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if merged["body_html"] != "<p>ciao</p>" {
		t.Fatalf("expected body_html to be replaced, got %v", merged["body_html"])
	}
	if merged["slugline"] != "roma-fire" {
		t.Fatalf("expected slugline to survive, got %v", merged["slugline"])
	}
	if categories, ok := merged["anpa_category"].([]any); !ok || len(categories) != 1 {
		t.Fatalf("expected anpa_category to survive, got %v", merged["anpa_category"])
	}
	if merged["word_count"] != json.Number("12") {
		t.Fatalf("expected word_count to keep its posted value, got %#v", merged["word_count"])
	}
	if merged["versioncreated"] != "2024-05-01T12:00:00+02:00" {
		t.Fatalf("expected untouched date to keep its posted form, got %v", merged["versioncreated"])
	}
	if _, ok := merged["pubstatus"]; ok {
		t.Fatalf("fields absent from the payload must not be added: %v", merged)
	}
}

func TestDocumentMergeDropsClearedFields(t *testing.T) {
	t.Parallel()

	doc, err := ValidateDocument(json.RawMessage(`{"body_html": "<p>x</p>", "slugline": "s"}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	doc.Item.BodyHTML = ""
	merged, err := doc.Merge(doc.Item)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if _, ok := merged["body_html"]; ok {
		t.Fatalf("expected cleared body_html to be removed: %v", merged)
	}
	if merged["slugline"] != "s" {
		t.Fatalf("unexpected slugline: %v", merged["slugline"])
	}
}
