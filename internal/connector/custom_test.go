package connector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCustom_RSS(t *testing.T) {
	const feed = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Acme Careers</title>
    <item>
      <title>Backend Engineer</title>
      <link>https://acme.example/jobs/42</link>
      <guid>acme-42</guid>
      <description>Build services in Golang.</description>
      <pubDate>Fri, 13 Jun 2025 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title></title>
      <link>https://acme.example/jobs/43</link>
    </item>
  </channel>
</rss>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	c := NewCustomConnector(testClient(srv), CustomConfig{
		Name:    "acme",
		Type:    CustomTypeRSS,
		URL:     srv.URL,
		Company: "Acme",
	})
	c.now = fixedNow

	result, err := c.FetchRecentJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 job (untitled item skipped), got %d", len(result.Jobs))
	}

	job := result.Jobs[0]
	if c.Name() != "custom:acme" || job.SourcePrimary != "custom:acme" {
		t.Errorf("unexpected source name: %q %q", c.Name(), job.SourcePrimary)
	}
	if job.Title != "Backend Engineer" || job.CompanyName != "Acme" {
		t.Errorf("unexpected identity fields: %q %q", job.Title, job.CompanyName)
	}
	if job.SourceJobID != "acme-42" {
		t.Errorf("expected guid as source job id, got %q", job.SourceJobID)
	}
	want := time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC)
	if job.PostedAt == nil || !job.PostedAt.Equal(want) {
		t.Errorf("expected posted_at %v, got %v", want, job.PostedAt)
	}
}

func TestCustom_HTML(t *testing.T) {
	const page = `<html><body>
<div class="job">
  <h2 class="title">Frontend Engineer</h2>
  <span class="org">Globex</span>
  <a class="apply" href="https://globex.example/jobs/1">Apply</a>
  <p class="desc">React and TypeScript.</p>
</div>
<div class="job">
  <h2 class="title">Designer</h2>
  <!-- no apply link: item must be skipped -->
</div>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	c := NewCustomConnector(testClient(srv), CustomConfig{
		Name:            "globex",
		Type:            CustomTypeHTML,
		URL:             srv.URL,
		ItemSelector:    "div.job",
		TitleSelector:   "h2.title",
		CompanySelector: "span.org",
		LinkSelector:    "a.apply",
		DescSelector:    "p.desc",
	})
	c.now = fixedNow

	result, err := c.FetchRecentJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 job (link-less item skipped), got %d", len(result.Jobs))
	}

	job := result.Jobs[0]
	if job.Title != "Frontend Engineer" || job.CompanyName != "Globex" {
		t.Errorf("unexpected identity fields: %q %q", job.Title, job.CompanyName)
	}
	if job.ApplyURL != "https://globex.example/jobs/1" {
		t.Errorf("unexpected apply url: %q", job.ApplyURL)
	}
	if job.DescriptionText != "React and TypeScript." {
		t.Errorf("unexpected description: %q", job.DescriptionText)
	}
}

func TestCustom_JSON(t *testing.T) {
	const payload = `{
  "data": {
    "postings": [
      {
        "id": 9001,
        "name": "Data Engineer",
        "org": {"label": "Initech"},
        "href": "https://initech.example/p/9001",
        "body": "Airflow pipelines.",
        "published": "2025-06-10T00:00:00Z"
      },
      {"name": "No Link Role"}
    ]
  }
}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := NewCustomConnector(testClient(srv), CustomConfig{
		Name:        "initech",
		Type:        CustomTypeJSON,
		URL:         srv.URL,
		ItemsPath:   "data.postings",
		TitlePath:   "name",
		CompanyPath: "org.label",
		LinkPath:    "href",
		DescPath:    "body",
		IDPath:      "id",
		DatePath:    "published",
	})
	c.now = fixedNow

	result, err := c.FetchRecentJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Jobs) != 1 {
		t.Fatalf("expected 1 job (link-less item skipped), got %d", len(result.Jobs))
	}

	job := result.Jobs[0]
	if job.Title != "Data Engineer" || job.CompanyName != "Initech" {
		t.Errorf("unexpected identity fields: %q %q", job.Title, job.CompanyName)
	}
	if job.SourceJobID != "9001" {
		t.Errorf("expected numeric id coerced to string, got %q", job.SourceJobID)
	}
	if job.PostedAt == nil {
		t.Error("expected posted_at from date path")
	}
}

func TestCustom_JSONBadItemsPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"postings": "not-an-array"}}`))
	}))
	defer srv.Close()

	c := NewCustomConnector(testClient(srv), CustomConfig{
		Name:      "broken",
		Type:      CustomTypeJSON,
		URL:       srv.URL,
		ItemsPath: "data.postings",
	})

	if _, err := c.FetchRecentJobs(context.Background()); err == nil {
		t.Fatal("expected error when items path is not an array, got nil")
	}
}

func TestCustom_UnknownType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewCustomConnector(testClient(srv), CustomConfig{Name: "x", Type: "csv", URL: srv.URL})
	if _, err := c.FetchRecentJobs(context.Background()); err == nil {
		t.Fatal("expected error for unknown payload type, got nil")
	}
}

func TestResolvePath(t *testing.T) {
	doc := map[string]any{
		"a": map[string]any{"b": map[string]any{"c": "deep"}},
		"n": 7.0,
	}
	if got := resolvePath(doc, "a.b.c"); got != "deep" {
		t.Errorf("resolvePath a.b.c = %v", got)
	}
	if got := resolvePath(doc, "a.missing.c"); got != nil {
		t.Errorf("expected nil for missing path, got %v", got)
	}
	if got := stringAt(doc, "n"); got != "7" {
		t.Errorf("stringAt n = %q", got)
	}
}
