package view

import (
	"avanza-scraper/lib/htmlutil"
	"avanza-scraper/lib/scrapers/avanza/core"
	"avanza-scraper/lib/textutil"
	"avanza-scraper/lib/timezone"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type InstrumentType string

const (
	TypeUnknown    InstrumentType = ""
	TypeStock      InstrumentType = "stock"
	TypeOption     InstrumentType = "option"
	TypeFutures    InstrumentType = "futures"
	TypeEquityBond InstrumentType = "equity bond"
)

// the first path segment of a search hit's link
var instrumentTypes = map[string]InstrumentType{
	"aktier":       TypeStock,
	"optioner":     TypeOption,
	"terminer":     TypeFutures,
	"obligationer": TypeEquityBond,
}

func (t InstrumentType) MarshalJSON() ([]byte, error) {
	if t == TypeUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

type SearchResult struct {
	Name        string         `json:"-"`
	Type        InstrumentType `json:"type"`
	Url         string         `json:"url"`
	Id          string         `json:"id"`
	Price       string         `json:"price"`
	LastUpdated string         `json:"lastUpdated"`
}

// MalformedSearchResultsError means the result links and the result detail
// tables could not be paired up.
type MalformedSearchResultsError struct {
	Links int
	Rows  int
}

func (e *MalformedSearchResultsError) Error() string {
	return fmt.Sprintf("malformed search results: %d links but %d detail rows", e.Links, e.Rows)
}

func searchPath(term string) string {
	query := url.Values{}
	query.Set("query", term)
	query.Set("_", strconv.FormatInt(timezone.UnixMillis(timezone.Now()), 10))
	return core.SearchPath + "?" + query.Encode()
}

// Search runs an inline search and returns the hits keyed by name. only the
// first page of results is read.
func (c Client) Search(ctx context.Context, term string) (map[string]SearchResult, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()

	span.SetAttributes(attribute.String("term", term))

	doc, err := c.fetch(ctx, searchPath(term))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search results")
		return nil, err
	}

	results, err := c.parseSearch(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse search results")
		return nil, err
	}
	span.SetAttributes(attribute.Int("count", len(results)))
	return results, nil
}

func (c Client) parseSearch(doc *goquery.Document) (map[string]SearchResult, error) {
	s := c.Core.Selectors
	links := doc.Find(s.SearchLink.Selector("a"))
	rows := doc.Find(s.SearchTable.Selector("table"))

	// links and rows are sibling lists, pairing them is only sound when they
	// line up one to one
	if links.Length() != rows.Length() {
		return nil, &MalformedSearchResultsError{
			Links: links.Length(),
			Rows:  rows.Length(),
		}
	}

	results := map[string]SearchResult{}
	for i := range links.Nodes {
		link := links.Eq(i)
		row := rows.Eq(i)

		href := link.AttrOr("href", "")
		name := link.AttrOr("title", "")
		if name == "" {
			name = strings.TrimSpace(link.Text())
		}

		result := SearchResult{
			Name: name,
			Type: instrumentTypes[textutil.Segment(href, 1)],
			Url:  c.Core.Resolve(href),
			Id:   textutil.Segment(href, 3),
		}

		cell := row.Find(s.SearchPriceCell.Selector("td")).First()
		if cell.Length() > 0 {
			info := htmlutil.NextElement(cell.Nodes[0])
			if info != nil {
				infoSel := goquery.NewDocumentFromNode(info).Selection
				result.Price = htmlutil.CleanText(infoSel)
				result.LastUpdated = textutil.Field(infoSel.AttrOr("title", ""), 2)
			}
		}

		results[name] = result
	}
	return results, nil
}
