package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	got, err := RenderMarkdown("## Heading\n\nsome **bold** text")
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	html := string(got)
	if !strings.Contains(html, "<h2") || !strings.Contains(html, "Heading") {
		t.Errorf("rendered HTML missing heading: %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("rendered HTML missing bold: %q", html)
	}
}

func TestGenerateExcerpt(t *testing.T) {
	md := "## Heading\n\nThis is [a link](http://example.com) and some *emphasis*."
	got := GenerateExcerpt(md, 160)
	if strings.Contains(got, "#") || strings.Contains(got, "](") || strings.Contains(got, "*") {
		t.Errorf("excerpt still contains markdown: %q", got)
	}
}

func TestGenerateExcerptTruncates(t *testing.T) {
	md := strings.Repeat("beseda ", 100)
	got := GenerateExcerpt(md, 20)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long excerpt should end with ellipsis: %q", got)
	}
	if len([]rune(got)) != 23 {
		t.Errorf("excerpt rune length = %d, want 23", len([]rune(got)))
	}
}
