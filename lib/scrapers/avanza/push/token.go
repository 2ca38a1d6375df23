package push

import (
	"avanza-scraper/lib/scrapers/avanza/core"
	"context"
	"errors"
)

var ErrNoToken = errors.New("push subscription token not found on page")

// TokenSource produces the subscription token presented in the handshake.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// PageTokenSource scrapes the token off the logged in overview page.
type PageTokenSource struct {
	Core *core.Client
}

func (s PageTokenSource) Token(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "push:Token")
	defer span.End()

	if err := s.Core.RequireAuth(); err != nil {
		return "", err
	}
	token, ok, err := s.Core.ExtractText(ctx, core.HomePage, s.Core.Selectors.PushToken)
	if err != nil {
		return "", err
	}
	if !ok || token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// StaticToken is a fixed token, for when it was obtained out of band.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	if t == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}
