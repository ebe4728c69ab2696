// File: internal/agent/webactions.go
package agent

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
)

const searchEndpoint = "https://duckduckgo.com/html/"

// SearchHit is one web search result.
type SearchHit struct {
	Title string
	URL   string
}

func (d *Dispatcher) handleWebSearch(ctx context.Context, params action.Params) (string, bool) {
	query := params.StringOr("query", "")
	num := params.Int("num", 5)
	if num <= 0 {
		num = 5
	}

	hits, err := d.webSearch(ctx, query, num)
	if err != nil || len(hits) == 0 {
		return fmt.Sprintf("Nenhum resultado encontrado para '%s'.", query), false
	}
	lines := make([]string, 0, len(hits))
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf("- %s\n  %s", h.Title, h.URL))
	}
	return fmt.Sprintf("Resultados da web para '%s':\n%s", query, strings.Join(lines, "\n")), true
}

func (d *Dispatcher) handleFetchURL(ctx context.Context, params action.Params) (string, bool) {
	target := params.StringOr("url", "")
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Sprintf("Erro ao buscar URL '%s': %v", target, err), false
	}
	resp, err := d.http.R().SetContext(ctx).Get(target)
	if err != nil {
		return fmt.Sprintf("Erro ao buscar URL '%s': %v", target, err), false
	}
	if resp.StatusCode() >= 400 {
		return fmt.Sprintf("Erro ao buscar URL '%s': status HTTP %d", target, resp.StatusCode()), false
	}
	snippet := resp.String()
	if len(snippet) > 2000 {
		snippet = snippet[:2000]
	}
	return fmt.Sprintf("Conteúdo obtido de %s:\n%s\n...", target, snippet), true
}

// webSearch scrapes the DuckDuckGo HTML results page. Result anchors carry
// the class "result__a"; header-nested anchors serve as a layout fallback.
// Redirect hrefs ("/l/?uddg=...") are decoded to their final URL.
func (d *Dispatcher) webSearch(ctx context.Context, query string, maxResults int) ([]SearchHit, error) {
	if query == "" {
		return nil, nil
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := d.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"q": query, "kp": "1"}).
		Get(searchEndpoint)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode())
	}

	doc, err := html.Parse(strings.NewReader(resp.String()))
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	seen := map[string]bool{}
	add := func(href, title string) {
		final := decodeSearchHref(href)
		if final == "" || seen[final] || len(hits) >= maxResults {
			return
		}
		seen[final] = true
		hits = append(hits, SearchHit{Title: strings.TrimSpace(title), URL: final})
	}

	var primary, fallback func(*html.Node)
	primary = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "result__a") {
			add(attrValue(n, "href"), nodeText(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			primary(c)
		}
	}
	fallback = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "h2" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.Data == "a" {
					add(attrValue(c, "href"), nodeText(c))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			fallback(c)
		}
	}
	primary(doc)
	if len(hits) < maxResults {
		fallback(doc)
	}
	return hits, nil
}

// decodeSearchHref resolves a result href against the search host and
// unwraps the uddg redirect parameter when present.
func decodeSearchHref(href string) string {
	if href == "" {
		return ""
	}
	base, _ := url.Parse("https://duckduckgo.com")
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	full := base.ResolveReference(ref)
	if target := full.Query().Get("uddg"); target != "" {
		return target
	}
	if strings.HasPrefix(full.String(), "http") {
		return full.String()
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
