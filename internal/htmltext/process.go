// Package htmltext rewrites the text nodes of an HTML fragment while leaving
// its element structure untouched.
//
// Two behaviours go beyond a plain text-node walk. Leading and trailing
// whitespace of each node is kept out of the callback and put back around
// the replacement, so translated text keeps the source spacing. Text inside
// script, style, template, code and pre elements is never passed to the
// callback and is rendered as posted.
package htmltext

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TextFunc returns the replacement for one text node. Surrounding whitespace
// is stripped before the call and restored afterwards.
type TextFunc func(ctx context.Context, text string) (string, error)

var skippedElements = map[atom.Atom]struct{}{
	atom.Script:   {},
	atom.Style:    {},
	atom.Template: {},
	atom.Code:     {},
	atom.Pre:      {},
}

// Process parses fragment as body content, calls fn for every non-blank text
// node in document order and renders the result. The first error aborts the
// walk and is returned unchanged.
func Process(ctx context.Context, fragment string, fn TextFunc) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("text func is nil")
	}
	if strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("parse html fragment: %w", err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, node := range nodes {
		root.AppendChild(node)
	}
	doc := goquery.NewDocumentFromNode(root)

	var texts []*html.Node
	collectTextNodes(doc.Selection, &texts)

	for _, node := range texts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		lead, core, trail := splitSpace(node.Data)
		if core == "" {
			continue
		}
		replaced, err := fn(ctx, core)
		if err != nil {
			return "", err
		}
		node.Data = lead + replaced + trail
	}

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("render html fragment: %w", err)
	}
	return out, nil
}

// TextNodes returns the non-blank text of fragment in document order.
func TextNodes(fragment string) ([]string, error) {
	var out []string
	_, err := Process(context.Background(), fragment, func(_ context.Context, text string) (string, error) {
		out = append(out, text)
		return text, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func collectTextNodes(sel *goquery.Selection, out *[]*html.Node) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		node := child.Get(0)
		switch node.Type {
		case html.TextNode:
			*out = append(*out, node)
		case html.ElementNode:
			if _, skip := skippedElements[node.DataAtom]; skip {
				return
			}
			collectTextNodes(child, out)
		}
	})
}

func splitSpace(s string) (lead, core, trail string) {
	start := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
	if start < 0 {
		return s, "", ""
	}
	end := strings.LastIndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
	_, size := utf8.DecodeRuneInString(s[end:])
	end += size
	return s[:start], s[start:end], s[end:]
}
