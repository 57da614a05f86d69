package ansa

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	SearchEndpoint = "ricerca.json"
	DetailEndpoint = "detail.json"

	// ImageProxyURL serves the medium preview used for thumbnail and viewImage.
	ImageProxyURL = "https://ansafoto.ansa.it/portaleimmagini/bdmproxy/"

	previewFormat = "med"
)

// Credentials are the static archive account.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) apply(params url.Values) {
	params.Set("username", c.Username)
	params.Set("password", c.Password)
}

// endpoints resolves archive paths against the configured API base with
// RFC 3986 reference resolution, so "https://host/api/" + "ricerca.json"
// yields "https://host/api/ricerca.json".
type endpoints struct {
	base *url.URL
}

func newEndpoints(raw string) (endpoints, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return endpoints{}, fmt.Errorf("photo API base URL is required")
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return endpoints{}, fmt.Errorf("parse photo API base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return endpoints{}, fmt.Errorf("photo API base URL must be absolute: %q", raw)
	}
	return endpoints{base: base}, nil
}

func (e endpoints) resolve(path string, params url.Values) string {
	ref := &url.URL{Path: path}
	resolved := e.base.ResolveReference(ref)
	if len(params) > 0 {
		resolved.RawQuery = params.Encode()
	}
	return resolved.String()
}

// originalHref is the full resolution binary for md5/guid.
func (e endpoints) originalHref(md5, guid string, creds Credentials) string {
	params := url.Values{}
	params.Set("guid", guid)
	creds.apply(params)
	return e.resolve("binary/"+md5+".jpg", params)
}

// previewHref is the proxied medium preview for md5/guid.
func previewHref(md5, guid string) string {
	params := url.Values{}
	params.Set("format", previewFormat)
	params.Set("guid", guid)
	return ImageProxyURL + url.PathEscape(md5) + ".jpg?" + params.Encode()
}
