package core

import (
	"avanza-scraper/lib/htmlutil"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// Extractor pulls a single optional value out of a parsed page. a missing
// value is reported with ok == false, it is not an error.
type Extractor interface {
	Extract(doc *goquery.Document) (value string, ok bool)
}

// Extract returns the cleaned text of the first element carrying the class.
func (c Class) Extract(doc *goquery.Document) (string, bool) {
	sel := doc.Find(c.Selector("")).First()
	if sel.Length() == 0 {
		return "", false
	}
	return htmlutil.CleanText(sel), true
}

// Extract returns the attribute value of the first matching element.
func (a Attr) Extract(doc *goquery.Document) (string, bool) {
	return doc.Find(a.Class.Selector(a.Tag)).First().Attr(a.Name)
}

// ExtractText fetches path and applies the extractor to it.
func (c *Client) ExtractText(ctx context.Context, path string, extractor Extractor) (string, bool, error) {
	return c.ExtractFirst(ctx, path, extractor)
}

// ExtractFirst fetches path once and tries each extractor in order, the first
// one that finds something wins.
func (c *Client) ExtractFirst(ctx context.Context, path string, extractors ...Extractor) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "client:ExtractFirst")
	defer span.End()

	doc, err := c.FetchPage(ctx, path)
	if err != nil {
		return "", false, err
	}

	value, idx := probe(doc, extractors)
	if idx < 0 {
		c.Logger.DebugContext(ctx, "field missing from page", "path", path)
		return "", false, nil
	}
	span.SetAttributes(attribute.Int("extractor", idx))
	return value, true, nil
}

// Probe applies extractors to an already fetched page in order and returns
// the first value found.
func Probe(doc *goquery.Document, extractors ...Extractor) (string, bool) {
	value, idx := probe(doc, extractors)
	return value, idx >= 0
}

func probe(doc *goquery.Document, extractors []Extractor) (string, int) {
	for i, e := range extractors {
		value, ok := e.Extract(doc)
		if ok {
			return value, i
		}
	}
	return "", -1
}

// ExtractAll fetches path and returns every element named tag that carries
// one of classes, in document order.
func (c *Client) ExtractAll(ctx context.Context, path, tag string, classes ...Class) (*goquery.Selection, error) {
	ctx, span := tracer.Start(ctx, "client:ExtractAll")
	defer span.End()

	doc, err := c.FetchPage(ctx, path)
	if err != nil {
		return nil, err
	}
	return doc.Find(groupSelector(tag, classes)), nil
}

func groupSelector(tag string, classes []Class) string {
	if len(classes) == 0 {
		return tag
	}
	selectors := make([]string, len(classes))
	for i, class := range classes {
		selectors[i] = class.Selector(tag)
	}
	return strings.Join(selectors, ", ")
}
