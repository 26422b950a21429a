package fetch

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// MinBodyLength is the minimum plausible byte length for a listing page.
// Shorter bodies usually mean an interstitial or a block page.
const MinBodyLength = 512

// Plausible reports whether a fetched body looks like a real document:
// long enough and carrying an html root element.
func Plausible(body string) bool {
	if len(strings.TrimSpace(body)) < MinBodyLength {
		return false
	}
	return strings.Contains(strings.ToLower(body), "<html")
}

// Client fetches listing pages through an ordered list of strategies.
// Each strategy either produces a plausible document or is skipped; only
// when every tier is exhausted does Page return an error.
type Client struct {
	opts       *Options
	mirrorBase string
	useBrowser bool
}

// NewClient creates a resilient fetch client. mirrorBase is the URL prefix of
// a read-only rendering proxy; empty disables the mirror tier. useBrowser
// enables a final headless-browser tier for JavaScript-rendered pages.
func NewClient(mirrorBase string, useBrowser bool) *Client {
	return &Client{
		opts:       DefaultOptions(),
		mirrorBase: mirrorBase,
		useBrowser: useBrowser,
	}
}

type strategy struct {
	name string
	run  func(ctx context.Context, urlStr string) (string, error)
}

func (c *Client) strategies() []strategy {
	tiers := []strategy{
		{name: "direct", run: c.direct},
	}
	if c.mirrorBase != "" {
		tiers = append(tiers, strategy{name: "mirror", run: c.mirror})
	}
	if c.useBrowser {
		tiers = append(tiers, strategy{name: "browser", run: c.browser})
	}
	return tiers
}

// Page returns the first plausible document produced by the strategy ladder.
// A nil error guarantees a body that passed Plausible.
func (c *Client) Page(ctx context.Context, urlStr string) (string, error) {
	for _, s := range c.strategies() {
		body, err := s.run(ctx, urlStr)
		if err != nil {
			log.Debug().Str("strategy", s.name).Str("url", urlStr).Err(err).Msg("fetch tier failed")
			continue
		}
		if !Plausible(body) {
			log.Debug().Str("strategy", s.name).Str("url", urlStr).Int("bytes", len(body)).Msg("fetch tier returned implausible body")
			continue
		}
		return body, nil
	}
	return "", &Error{URL: urlStr, Message: "no fetch strategy produced a usable page"}
}

func (c *Client) direct(ctx context.Context, urlStr string) (string, error) {
	result, err := URL(ctx, urlStr, c.opts)
	if err != nil {
		return "", err
	}
	return result.Body, nil
}

func (c *Client) mirror(ctx context.Context, urlStr string) (string, error) {
	result, err := URL(ctx, c.mirrorBase+urlStr, c.opts)
	if err != nil {
		return "", err
	}
	return result.Body, nil
}

func (c *Client) browser(ctx context.Context, urlStr string) (string, error) {
	return WithBrowser(ctx, urlStr, DefaultTimeout)
}
