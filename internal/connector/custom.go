package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobsift/jobsift/internal/fetch"
	"github.com/jobsift/jobsift/internal/model"
)

// Custom payload shapes supported without code changes.
const (
	CustomTypeRSS  = "rss"
	CustomTypeHTML = "html"
	CustomTypeJSON = "json"
)

// CustomConfig describes one user-defined scraper source.
type CustomConfig struct {
	Name    string
	Type    string // rss, html, or json
	URL     string
	Company string // fixed company name when the feed doesn't carry one

	// HTML mode: CSS selectors. ItemSelector scopes each listing; the rest
	// are resolved relative to it. LinkSelector reads the href attribute.
	ItemSelector    string
	TitleSelector   string
	CompanySelector string
	LinkSelector    string
	DescSelector    string

	// JSON mode: dot-separated path expressions. ItemsPath locates the
	// array ("" means the document root is the array); the rest are
	// resolved per item.
	ItemsPath   string
	TitlePath   string
	CompanyPath string
	LinkPath    string
	DescPath    string
	IDPath      string
	DatePath    string
}

// CustomConnector is the generic scraper: one connector instance per
// configured custom source. Items whose selectors or paths don't resolve
// are skipped individually; a batch never fails because of one bad item.
type CustomConnector struct {
	client *fetch.Client
	cfg    CustomConfig
	now    func() time.Time
}

// NewCustomConnector creates a connector for one custom source config.
func NewCustomConnector(client *fetch.Client, cfg CustomConfig) *CustomConnector {
	return &CustomConnector{client: client, cfg: cfg, now: time.Now}
}

func (c *CustomConnector) Name() string { return "custom:" + c.cfg.Name }

// FetchRecentJobs fetches the configured URL and parses it according to the
// source's payload type.
func (c *CustomConnector) FetchRecentJobs(ctx context.Context) (model.FetchResult, error) {
	if c.cfg.URL == "" {
		return model.FetchResult{}, nil // unconfigured source, disabled
	}

	body, err := c.client.Get(ctx, c.Name(), c.cfg.URL, nil)
	if err != nil {
		return model.FetchResult{}, fmt.Errorf("custom source %s: %w", c.cfg.Name, err)
	}

	switch c.cfg.Type {
	case CustomTypeRSS:
		return c.parseRSS(body)
	case CustomTypeHTML:
		return c.parseHTML(body)
	case CustomTypeJSON:
		return c.parseJSON(body)
	default:
		return model.FetchResult{}, fmt.Errorf("custom source %s: unknown type %q", c.cfg.Name, c.cfg.Type)
	}
}

// --- RSS ---

type rssDocument struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

func (c *CustomConnector) parseRSS(body []byte) (model.FetchResult, error) {
	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return model.FetchResult{}, fmt.Errorf("custom source %s: parse rss: %w", c.cfg.Name, err)
	}

	var result model.FetchResult
	for _, item := range doc.Channel.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		job := model.CanonicalJob{
			Title:           item.Title,
			CompanyName:     c.cfg.Company,
			DescriptionText: item.Description,
			ApplyURL:        item.Link,
			SourcePrimary:   c.Name(),
			SourceJobID:     firstNonEmpty(item.GUID, item.Link),
		}
		if item.PubDate != "" {
			if t, err := parseRSSDate(item.PubDate); err == nil {
				job.PostedAt = &t
			}
		}
		finalize(&job, c.now())

		raw, _ := xml.Marshal(item)
		result.Jobs = append(result.Jobs, job)
		result.Raw = append(result.Raw, model.RawItem{
			SourceJobID: job.SourceJobID,
			SourceURL:   item.Link,
			Payload:     string(raw),
		})
	}
	return result, nil
}

// parseRSSDate tries the date layouts seen in real feeds.
func parseRSSDate(s string) (time.Time, error) {
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// --- HTML ---

func (c *CustomConnector) parseHTML(body []byte) (model.FetchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return model.FetchResult{}, fmt.Errorf("custom source %s: parse html: %w", c.cfg.Name, err)
	}

	var result model.FetchResult
	doc.Find(c.cfg.ItemSelector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(c.cfg.TitleSelector).First().Text())
		link, _ := sel.Find(c.cfg.LinkSelector).First().Attr("href")
		if title == "" || link == "" {
			return // unresolvable selectors, skip the item
		}

		company := c.cfg.Company
		if c.cfg.CompanySelector != "" {
			if v := strings.TrimSpace(sel.Find(c.cfg.CompanySelector).First().Text()); v != "" {
				company = v
			}
		}
		desc := ""
		if c.cfg.DescSelector != "" {
			desc = strings.TrimSpace(sel.Find(c.cfg.DescSelector).First().Text())
		}

		job := model.CanonicalJob{
			Title:           title,
			CompanyName:     company,
			DescriptionText: desc,
			ApplyURL:        link,
			SourcePrimary:   c.Name(),
			SourceJobID:     link,
		}
		finalize(&job, c.now())

		html, _ := goquery.OuterHtml(sel)
		result.Jobs = append(result.Jobs, job)
		result.Raw = append(result.Raw, model.RawItem{
			SourceJobID: link,
			SourceURL:   link,
			Payload:     html,
		})
	})
	return result, nil
}

// --- JSON ---

func (c *CustomConnector) parseJSON(body []byte) (model.FetchResult, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return model.FetchResult{}, fmt.Errorf("custom source %s: parse json: %w", c.cfg.Name, err)
	}

	items, ok := resolvePath(doc, c.cfg.ItemsPath).([]any)
	if !ok {
		return model.FetchResult{}, fmt.Errorf("custom source %s: items path %q did not resolve to an array", c.cfg.Name, c.cfg.ItemsPath)
	}

	var result model.FetchResult
	for _, item := range items {
		title := stringAt(item, c.cfg.TitlePath)
		link := stringAt(item, c.cfg.LinkPath)
		if title == "" || link == "" {
			continue // unresolvable paths, skip the item
		}

		company := stringAt(item, c.cfg.CompanyPath)
		if company == "" {
			company = c.cfg.Company
		}

		job := model.CanonicalJob{
			Title:           title,
			CompanyName:     company,
			DescriptionText: stringAt(item, c.cfg.DescPath),
			ApplyURL:        link,
			SourcePrimary:   c.Name(),
			SourceJobID:     firstNonEmpty(stringAt(item, c.cfg.IDPath), link),
		}
		if dateStr := stringAt(item, c.cfg.DatePath); dateStr != "" {
			if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
				job.PostedAt = &t
			}
		}
		finalize(&job, c.now())

		raw, _ := json.Marshal(item)
		result.Jobs = append(result.Jobs, job)
		result.Raw = append(result.Raw, model.RawItem{
			SourceJobID: job.SourceJobID,
			SourceURL:   link,
			Payload:     string(raw),
		})
	}
	return result, nil
}

// resolvePath walks a dot-separated path through nested JSON objects.
// An empty path returns the document itself.
func resolvePath(doc any, path string) any {
	if path == "" {
		return doc
	}
	current := doc
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[part]
	}
	return current
}

// stringAt resolves a path and coerces the result to a string. Numbers are
// formatted without an exponent so ids survive.
func stringAt(item any, path string) string {
	if path == "" {
		return ""
	}
	switch v := resolvePath(item, path).(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
