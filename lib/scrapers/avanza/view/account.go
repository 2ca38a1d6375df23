package view

import (
	"avanza-scraper/lib/htmlutil"
	"avanza-scraper/lib/scrapers/avanza/core"
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func (c Client) overviewField(ctx context.Context, extractors ...core.Extractor) (string, bool, error) {
	if err := c.Core.RequireAuth(); err != nil {
		return "", false, err
	}
	return c.Core.ExtractFirst(ctx, core.HomePage, extractors...)
}

// Balance is the cash balance over all accounts.
func (c Client) Balance(ctx context.Context) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "client:Balance")
	defer span.End()
	return c.overviewField(ctx, c.Core.Selectors.TotalBalance)
}

// PurchaseBalance is the amount available for purchases.
func (c Client) PurchaseBalance(ctx context.Context) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "client:PurchaseBalance")
	defer span.End()
	return c.overviewField(ctx, c.Core.Selectors.BuyingPower)
}

// TotalValue is the balance plus the value of all holdings.
func (c Client) TotalValue(ctx context.Context) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "client:TotalValue")
	defer span.End()
	return c.overviewField(ctx, c.Core.Selectors.TotalValue)
}

// Growth is this year's development. the site uses a different class for
// positive and negative numbers so both are probed.
func (c Client) Growth(ctx context.Context) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "client:Growth")
	defer span.End()
	return c.overviewField(ctx, c.Core.Selectors.GrowthPositive, c.Core.Selectors.GrowthNegative)
}

// Accounts lists the display names of every account.
func (c Client) Accounts(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:Accounts")
	defer span.End()

	doc, err := c.fetch(ctx, core.AccountsPage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch accounts")
		return nil, err
	}

	anchors := htmlutil.GetAnchors(ctx, nil, doc.Find(c.Core.Selectors.AccountLink.Selector("a")))
	names := make([]string, len(anchors))
	for i, a := range anchors {
		names[i] = a.Name
	}
	return names, nil
}

// AccountInfo is the overview of a single account, json keys are the labels
// shown on the site.
type AccountInfo struct {
	AccountId   string  `json:"-"`
	Growth      *string `json:"Utveckling i år"`
	Balance     *string `json:"Saldo"`
	BuyingPower *string `json:"Tillgänligt för köp"`
	TotalValue  *string `json:"Totalt värde"`
}

type Field struct {
	Label string
	Value *string
}

// Fields lists the values in the order the site shows them.
func (a AccountInfo) Fields() []Field {
	return []Field{
		{Label: "Utveckling i år", Value: a.Growth},
		{Label: "Saldo", Value: a.Balance},
		{Label: "Tillgänligt för köp", Value: a.BuyingPower},
		{Label: "Totalt värde", Value: a.TotalValue},
	}
}

func (c Client) AccountInfo(ctx context.Context, accountId string) (AccountInfo, error) {
	ctx, span := tracer.Start(ctx, "client:AccountInfo")
	defer span.End()

	span.SetAttributes(attribute.String("account_id", accountId))

	doc, err := c.fetch(ctx, core.AccountPage(accountId))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch account page")
		return AccountInfo{}, err
	}

	s := c.Core.Selectors
	return AccountInfo{
		AccountId:   accountId,
		Growth:      optional(core.Probe(doc, s.GrowthPositive, s.GrowthNegative)),
		Balance:     optional(core.Probe(doc, s.TotalBalance)),
		BuyingPower: optional(core.Probe(doc, s.BuyingPower)),
		TotalValue:  optional(core.Probe(doc, s.TotalValue)),
	}, nil
}
