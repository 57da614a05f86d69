package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const DefaultPageSize = 25

// Query is the part of the platform's search request an external provider
// understands: free text and from/size pagination.
type Query struct {
	Text string
	From int
	Size int
}

// PageSize returns Size, or DefaultPageSize when Size is not positive.
func (q Query) PageSize() int {
	if q.Size <= 0 {
		return DefaultPageSize
	}
	return q.Size
}

// Page is the 1-indexed page holding offset From: ceil((from+1)/size).
func (q Query) Page() int {
	from := q.From
	if from < 0 {
		from = 0
	}
	size := q.PageSize()
	return (from + size) / size
}

type rawQuery struct {
	Query struct {
		Filtered struct {
			Query struct {
				QueryString struct {
					Query string `json:"query"`
				} `json:"query_string"`
			} `json:"query"`
		} `json:"filtered"`
	} `json:"query"`
	From flexInt `json:"from"`
	Size flexInt `json:"size"`
}

// ParseQuery decodes the platform query object
// {"query":{"filtered":{"query":{"query_string":{"query":...}}}},"from":N,"size":N}.
// Missing parts fall back to an empty text, from=0 and size=25.
func ParseQuery(raw []byte) (Query, error) {
	q := Query{Size: DefaultPageSize}
	if len(bytes.TrimSpace(raw)) == 0 {
		return q, nil
	}

	var parsed rawQuery
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Query{}, fmt.Errorf("decode search query: %w", err)
	}

	q.Text = strings.TrimSpace(parsed.Query.Filtered.Query.QueryString.Query)
	if parsed.From.set {
		if parsed.From.value < 0 {
			return Query{}, fmt.Errorf("from must be >= 0")
		}
		q.From = parsed.From.value
	}
	if parsed.Size.set {
		if parsed.Size.value < 1 {
			return Query{}, fmt.Errorf("size must be >= 1")
		}
		q.Size = parsed.Size.value
	}
	return q, nil
}

// flexInt accepts both 25 and "25".
type flexInt struct {
	value int
	set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	trimmed = strings.Trim(trimmed, `"`)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", data)
	}
	f.value = n
	f.set = true
	return nil
}
