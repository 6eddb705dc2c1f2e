// Package enrich looks up short descriptive passages for skill phrases in
// public knowledge sources. Lookups are best effort: the Enricher never
// returns an error, it falls back to the input text instead.
package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Cyber-morocco/Skillsy/internal/fetch"
)

// Source is a single knowledge source. Lookup returns an empty passage with a
// nil error when the source has nothing useful for query.
type Source interface {
	Name() string
	Lookup(ctx context.Context, query, lang string) (string, error)
}

// DefaultDuckDuckGoEndpoint is the DuckDuckGo instant answer API.
const DefaultDuckDuckGoEndpoint = "https://api.duckduckgo.com/"

// DuckDuckGo queries the instant answer API and returns its abstract.
type DuckDuckGo struct {
	Endpoint string
	Options  *fetch.Options
}

// Name identifies the source in logs and traces.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Lookup returns the AbstractText for query, whatever the answer type.
func (d *DuckDuckGo) Lookup(ctx context.Context, query, _ string) (string, error) {
	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = DefaultDuckDuckGoEndpoint
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")

	var answer struct {
		AbstractText string `json:"AbstractText"`
	}
	if err := fetch.JSON(ctx, endpoint+"?"+params.Encode(), d.Options, &answer); err != nil {
		return "", err
	}
	return fetch.PlainText(answer.AbstractText), nil
}

// DefaultWikipediaEndpoint is the REST page summary endpoint. {lang} is
// replaced by the wiki language.
const DefaultWikipediaEndpoint = "https://{lang}.wikipedia.org/api/rest_v1/page/summary/"

// Wikipedia fetches the lead summary of the article titled like the query.
type Wikipedia struct {
	Endpoint string
	Options  *fetch.Options
}

// Name identifies the source in logs and traces.
func (w *Wikipedia) Name() string { return "wikipedia" }

// Lookup returns the plain extract of the page summary. Missing pages and
// disambiguation pages yield no passage.
func (w *Wikipedia) Lookup(ctx context.Context, query, lang string) (string, error) {
	endpoint := w.Endpoint
	if endpoint == "" {
		endpoint = DefaultWikipediaEndpoint
	}
	title := url.PathEscape(pageTitle(query))
	target := strings.ReplaceAll(endpoint, "{lang}", lang) + title

	opts := w.Options
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	withAccept := *opts
	withAccept.Headers = map[string]string{"Accept": "application/json"}
	for k, v := range opts.Headers {
		withAccept.Headers[k] = v
	}

	var summary struct {
		Type    string `json:"type"`
		Extract string `json:"extract"`
	}
	err := fetch.JSON(ctx, target, &withAccept, &summary)
	if err != nil {
		var fe *fetch.Error
		if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}
	if summary.Type == "disambiguation" {
		return "", nil
	}
	return fetch.PlainText(summary.Extract), nil
}

// pageTitle converts a query into a wiki page title: first letter upper case,
// spaces as underscores.
func pageTitle(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(query)
	return strings.ReplaceAll(string(unicode.ToUpper(first))+query[size:], " ", "_")
}
