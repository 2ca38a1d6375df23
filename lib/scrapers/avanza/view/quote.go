package view

import (
	"avanza-scraper/lib/scrapers/avanza/core"
	"context"

	"go.opentelemetry.io/otel/codes"
)

// Quote is the price box of an instrument page.
type Quote struct {
	Latest  *string `json:"latest"`
	Highest *string `json:"highest"`
	Lowest  *string `json:"lowest"`
	Updated *string `json:"updated"`
}

// Quote reads the price box of the instrument page at path, usually the Url
// of a SearchResult.
func (c Client) Quote(ctx context.Context, path string) (Quote, error) {
	ctx, span := tracer.Start(ctx, "client:Quote")
	defer span.End()

	doc, err := c.fetch(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch instrument page")
		return Quote{}, err
	}

	s := c.Core.Selectors
	return Quote{
		Latest:  optional(core.Probe(doc, s.LatestPrice)),
		Highest: optional(core.Probe(doc, s.HighestPrice)),
		Lowest:  optional(core.Probe(doc, s.LowestPrice)),
		Updated: optional(core.Probe(doc, s.QuoteUpdated)),
	}, nil
}
