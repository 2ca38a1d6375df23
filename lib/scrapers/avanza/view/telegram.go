package view

import (
	"avanza-scraper/lib/scrapers/avanza/core"
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Telegrams returns the absolute links of the news telegrams on the first
// listing page, at most limit of them when limit > 0. older pages are not
// followed.
func (c Client) Telegrams(ctx context.Context, limit int) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:Telegrams")
	defer span.End()

	if err := c.Core.RequireAuth(); err != nil {
		return nil, err
	}

	rows, err := c.Core.ExtractAll(ctx, core.TelegramPage, "li", c.Core.Selectors.TelegramRows...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch telegrams")
		return nil, err
	}

	var links []string
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if limit > 0 && len(links) >= limit {
			return false
		}
		href, ok := row.Find("a").First().Attr("href")
		if !ok {
			c.Core.Logger.DebugContext(ctx, "telegram row without link")
			return true
		}
		links = append(links, c.Core.Resolve(href))
		return true
	})

	span.SetAttributes(attribute.Int("count", len(links)))
	return links, nil
}
