package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("quotescrape.lib.htmlutil")

// GetText returns the concatenated text nodes under node, untouched.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// FirstText returns the text of the first node in the selection and whether
// the selection had any nodes at all.
func FirstText(sel *goquery.Selection) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	return GetText(sel.Nodes[0]), true
}

// GetLinks returns the hrefs of the anchors in sel resolved against base, in
// document order. Anchors without an href or with an unparsable href are skipped.
func GetLinks(ctx context.Context, base *url.URL, sel *goquery.Selection) []string {
	_, span := tracer.Start(ctx, "GetLinks")
	defer span.End()

	links := []string{}
	for _, n := range sel.Nodes {
		href, ok := attr(n, "href")
		if !ok {
			continue
		}

		link, err := Resolve(base, href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}

		links = append(links, link)
		span.AddEvent("link", trace.WithAttributes(attribute.String("url", link)))
	}

	return links
}

// Resolve resolves href relative to base, base may be nil.
func Resolve(base *url.URL, href string) (string, error) {
	link, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	if base != nil {
		link = base.ResolveReference(link)
	}
	link.Fragment = ""
	return link.String(), nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
