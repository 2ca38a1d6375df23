package core

import (
	"avanza-scraper/lib/restyutil"
	"avanza-scraper/lib/telemetry"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"dario.cat/mergo"
	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseUrl = "https://avanza.se"

const LoginPath = "/ab/handlelogin"

var DefaultHeaders = map[string]string{
	"User-agent": "Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/532.36 " +
		"(KHTML, like Gecko) Chrome/52.0.2743.116 Safari/537.37",
}

var ErrAuthenticationRequired = errors.New("this operation requires authentication, provide both a username and a password")

// AuthenticationError is returned when the login form post is answered with
// anything but 200.
type AuthenticationError struct {
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed with status code: %d", e.StatusCode)
}

type Client struct {
	BaseUrl   *url.URL
	Http      *resty.Client
	Selectors Selectors
	Logger    *slog.Logger

	username string
	password string
	proxy    func(*http.Request) (*url.URL, error)
}

type ClientOptions struct {
	BaseUrl  string
	Username string
	Password string
	// replaces DefaultHeaders entirely when non-empty
	Headers map[string]string
	// scheme -> proxy url, e.g. {"https": "http://localhost:8080"}
	Proxy   map[string]string
	Timeout time.Duration
	// overrides individual entries of DefaultSelectors()
	Selectors *Selectors
	Logger    *slog.Logger
	// request/response dumps, only written while Logger has debug enabled
	InstrumentOutput restyutil.InstrumentOutput
}

func proxyFunc(proxies map[string]string) (func(*http.Request) (*url.URL, error), error) {
	parsed := map[string]*url.URL{}
	for scheme, raw := range proxies {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy for %s: %w", scheme, err)
		}
		parsed[scheme] = u
	}
	return func(req *http.Request) (*url.URL, error) {
		u, ok := parsed[req.URL.Scheme]
		if !ok {
			return nil, nil
		}
		return u, nil
	}, nil
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	selectors := DefaultSelectors()
	if opts.Selectors != nil {
		err = mergo.Merge(&selectors, *opts.Selectors, mergo.WithOverride)
		if err != nil {
			return nil, err
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if len(opts.Proxy) > 0 {
		transport.Proxy, err = proxyFunc(opts.Proxy)
		if err != nil {
			return nil, err
		}
	}
	proxy := transport.Proxy

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetTransport(cloudflarebp.AddCloudFlareByPass(transport))

	headers := opts.Headers
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	client.SetHeaders(headers)
	// the site bounces between avanza.se and www.avanza.se
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	} else {
		client.SetTimeout(time.Second * 30)
	}

	telemetry.InstrumentResty(client, "avanza.lib.scrapers.avanza.core/http")
	restyutil.InstrumentClient(client, logger, opts.InstrumentOutput)

	c := &Client{
		BaseUrl:   baseUrl,
		Http:      client,
		Selectors: selectors,
		Logger:    logger,
		username:  opts.Username,
		password:  opts.Password,
		proxy:     proxy,
	}
	return c, nil
}

func (c *Client) Username() string {
	return c.username
}

// Proxy is the proxy selection of the session, other transports (the push
// channel) reuse it.
func (c *Client) Proxy() func(*http.Request) (*url.URL, error) {
	return c.proxy
}

// Cookies is the session's cookie jar, populated by a successful login.
func (c *Client) Cookies() http.CookieJar {
	return c.Http.GetClient().Jar
}

func (c *Client) HasCredentials() bool {
	return c.username != "" && c.password != ""
}

// RequireAuth fails with ErrAuthenticationRequired unless both a username
// and a password were given, it never touches the network.
func (c *Client) RequireAuth() error {
	if !c.HasCredentials() {
		return ErrAuthenticationRequired
	}
	return nil
}

// Resolve turns a site relative path into an absolute url, joined onto the
// base url the same way requests are.
func (c *Client) Resolve(path string) string {
	ref, err := url.Parse(path)
	if err == nil && (ref.IsAbs() || ref.Host != "") {
		return c.BaseUrl.ResolveReference(ref).String()
	}
	return strings.TrimRight(c.BaseUrl.String(), "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) LoginUsernamePassword(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:LoginUsernamePassword")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"j_username": username,
			"j_password": password,
		}).
		Post(LoginPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return err
	}

	if res.StatusCode() != http.StatusOK {
		err := &AuthenticationError{StatusCode: res.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		c.Logger.WarnContext(ctx, "login rejected", "username", username, "status", res.StatusCode())
		return err
	}

	c.Logger.DebugContext(ctx, "logged in", "username", username)
	return nil
}

// Login authenticates the session with the credentials given at
// construction.
func (c *Client) Login(ctx context.Context) error {
	if err := c.RequireAuth(); err != nil {
		return err
	}
	return c.LoginUsernamePassword(ctx, c.username, c.password)
}

// FetchPage GETs base_url + path and parses the body as html. the status
// code is not inspected, the site answers 200 even when data is missing.
func (c *Client) FetchPage(ctx context.Context, path string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPage")
	defer span.End()

	span.SetAttributes(attribute.String("path", path))

	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}
