package naver

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IndustryGroup is one Naver Finance industry (업종) with its member
// symbols.
type IndustryGroup struct {
	No      string
	Name    string
	Symbols []string
}

// FetchIndustryList scrapes the industry index page and returns the
// industry numbers and names.
func (c *Client) FetchIndustryList(ctx context.Context) ([]IndustryGroup, error) {
	body, err := c.fetchBody(ctx, c.pageURL("/sise/sise_group.naver", url.Values{"type": {"upjong"}}))
	if err != nil {
		return nil, fmt.Errorf("fetch industry list: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse industry list: %w", err)
	}

	var groups []IndustryGroup
	doc.Find("table.type_1 a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		no := queryParam(href, "no")
		name := strings.TrimSpace(sel.Text())
		if no == "" || name == "" {
			return
		}
		groups = append(groups, IndustryGroup{No: no, Name: name})
	})

	if len(groups) == 0 {
		return nil, fmt.Errorf("no industries found on index page")
	}

	c.logger.WithField("count", len(groups)).Info("Fetched industry list from Naver")
	return groups, nil
}

// FetchIndustryMembers scrapes an industry detail page and returns the
// member symbols.
func (c *Client) FetchIndustryMembers(ctx context.Context, no string) ([]string, error) {
	params := url.Values{"type": {"upjong"}, "no": {no}}
	body, err := c.fetchBody(ctx, c.pageURL("/sise/sise_group_detail.naver", params))
	if err != nil {
		return nil, fmt.Errorf("fetch industry %s members: %w", no, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse industry %s page: %w", no, err)
	}

	seen := make(map[string]bool)
	var symbols []string
	doc.Find("table.type_5 a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		code := queryParam(href, "code")
		if len(code) != 6 || seen[code] {
			return
		}
		seen[code] = true
		symbols = append(symbols, code)
	})
	return symbols, nil
}

// FetchSectorTable builds the full sector → symbols table by walking
// every industry detail page. One request per industry; the rate
// limiter spaces them out.
func (c *Client) FetchSectorTable(ctx context.Context) (map[string][]string, error) {
	groups, err := c.FetchIndustryList(ctx)
	if err != nil {
		return nil, err
	}

	table := make(map[string][]string, len(groups))
	for _, g := range groups {
		members, err := c.FetchIndustryMembers(ctx, g.No)
		if err != nil {
			return nil, fmt.Errorf("industry %s (%s): %w", g.No, g.Name, err)
		}
		if len(members) == 0 {
			continue
		}
		table[g.Name] = members
	}

	c.logger.WithField("sectors", len(table)).Info("Built sector table from Naver")
	return table, nil
}

// queryParam extracts one query parameter from an href without
// requiring the href to be an absolute URL.
func queryParam(href, key string) string {
	idx := strings.IndexByte(href, '?')
	if idx < 0 {
		return ""
	}
	vals, err := url.ParseQuery(href[idx+1:])
	if err != nil {
		return ""
	}
	return vals.Get(key)
}
