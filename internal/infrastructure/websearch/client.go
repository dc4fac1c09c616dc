package websearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/griffinm/jotter/internal/domain/tool"
)

const (
	serperSearchEndpoint = "https://google.serper.dev/search"
	duckDuckGoEndpoint   = "https://api.duckduckgo.com/"
)

// Client performs web searches through Serper, falling back to the
// DuckDuckGo instant-answer API when no key is configured or Serper is down.
type Client struct {
	apiKey         string
	serperClient   *resty.Client
	fallbackClient *resty.Client
	log            zerolog.Logger
}

// NewClient wires HTTP clients for both backends.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		serperClient: resty.New().
			SetHeader("User-Agent", "Jotter/1.0").
			SetTimeout(15 * time.Second),
		fallbackClient: resty.New().
			SetHeader("User-Agent", "Jotter/1.0").
			SetTimeout(15 * time.Second),
		log: log.With().Str("component", "websearch").Logger(),
	}
}

var _ tool.WebSearcher = (*Client)(nil)

// Search returns up to limit results for the query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]tool.WebSearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	if c.apiKey == "" {
		return c.searchViaDuckDuckGo(ctx, query, limit)
	}

	results, err := c.searchViaSerper(ctx, query, limit)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("serper search failed, trying fallback")
		return c.searchViaDuckDuckGo(ctx, query, limit)
	}
	return results, nil
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (c *Client) searchViaSerper(ctx context.Context, query string, limit int) ([]tool.WebSearchResult, error) {
	var payload serperResponse
	resp, err := c.serperClient.R().
		SetContext(ctx).
		SetHeader("X-API-KEY", c.apiKey).
		SetBody(map[string]any{"q": query, "num": limit}).
		SetResult(&payload).
		Post(serperSearchEndpoint)
	if err != nil {
		return nil, fmt.Errorf("serper request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("serper HTTP %d: %s", resp.StatusCode(), resp.Status())
	}

	results := make([]tool.WebSearchResult, 0, limit)
	for _, hit := range payload.Organic {
		results = append(results, tool.WebSearchResult{
			Title:   hit.Title,
			URL:     hit.Link,
			Snippet: hit.Snippet,
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

type duckDuckGoResponse struct {
	Heading       string           `json:"Heading"`
	AbstractText  string           `json:"AbstractText"`
	AbstractURL   string           `json:"AbstractURL"`
	RelatedTopics []duckDuckTopics `json:"RelatedTopics"`
}

type duckDuckTopics struct {
	Text     string           `json:"Text"`
	FirstURL string           `json:"FirstURL"`
	Topics   []duckDuckTopics `json:"Topics"`
}

func (c *Client) searchViaDuckDuckGo(ctx context.Context, query string, limit int) ([]tool.WebSearchResult, error) {
	var ddg duckDuckGoResponse
	resp, err := c.fallbackClient.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("format", "json").
		SetQueryParam("no_html", "1").
		SetQueryParam("skip_disambig", "1").
		SetResult(&ddg).
		Get(duckDuckGoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("fallback search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fallback search HTTP %d: %s", resp.StatusCode(), resp.Status())
	}

	results := make([]tool.WebSearchResult, 0, limit)
	if ddg.AbstractURL != "" || ddg.AbstractText != "" {
		results = append(results, tool.WebSearchResult{
			Title:   fallbackTitle(ddg.Heading, query),
			URL:     ddg.AbstractURL,
			Snippet: stripMarkup(ddg.AbstractText),
		})
	}
	for _, topic := range flattenDuckTopics(ddg.RelatedTopics) {
		if topic.FirstURL == "" {
			continue
		}
		results = append(results, tool.WebSearchResult{
			Title:   fallbackTitle(topic.Text, query),
			URL:     topic.FirstURL,
			Snippet: stripMarkup(topic.Text),
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

func flattenDuckTopics(topics []duckDuckTopics) []duckDuckTopics {
	var out []duckDuckTopics
	for _, topic := range topics {
		if len(topic.Topics) > 0 {
			out = append(out, flattenDuckTopics(topic.Topics)...)
			continue
		}
		out = append(out, topic)
	}
	return out
}

func fallbackTitle(title, query string) string {
	title = strings.TrimSpace(title)
	if title != "" {
		return title
	}
	return fmt.Sprintf("Result for %q", query)
}

// stripMarkup flattens any residual HTML in a snippet to visible text.
func stripMarkup(raw string) string {
	if !strings.ContainsRune(raw, '<') {
		return raw
	}
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			val := strings.TrimSpace(n.Data)
			if val != "" {
				if builder.Len() > 0 {
					builder.WriteString(" ")
				}
				builder.WriteString(val)
			}
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return builder.String()
}
