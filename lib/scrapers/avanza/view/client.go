package view

import (
	"avanza-scraper/lib/scrapers/avanza/core"
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// Client exposes the account and report pages of the site. every method
// requires credentials and fails with core.ErrAuthenticationRequired before
// any request is made when they are missing.
type Client struct {
	Core *core.Client
}

// NewClient wraps an existing session, when the session carries credentials
// it is logged in right away.
func NewClient(ctx context.Context, coreClient *core.Client) (Client, error) {
	ctx, span := tracer.Start(ctx, "NewClient")
	defer span.End()

	c := Client{Core: coreClient}
	if !coreClient.HasCredentials() {
		return c, nil
	}

	err := coreClient.Login(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to login")
		return Client{}, err
	}
	return c, nil
}

// fetch checks credentials before fetching so that unauthenticated calls
// never reach the network.
func (c Client) fetch(ctx context.Context, path string) (*goquery.Document, error) {
	if err := c.Core.RequireAuth(); err != nil {
		return nil, err
	}
	return c.Core.FetchPage(ctx, path)
}

func optional(value string, ok bool) *string {
	if !ok {
		return nil
	}
	return &value
}
