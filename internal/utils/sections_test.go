package utils

import (
	"reflect"
	"testing"
)

func TestParseSections(t *testing.T) {
	md := "intro text that has no heading yet\n\n## First\n\nbody one\n\n## Second\n\nbody two\nsecond line"
	got := ParseSections(md)
	want := []Section{
		{Heading: "First", Content: "body one"},
		{Heading: "Second", Content: "body two\nsecond line"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSections:\ngot  %#v\nwant %#v", got, want)
	}
}

func TestParseSectionsEmptyInput(t *testing.T) {
	if got := ParseSections(""); len(got) != 0 {
		t.Errorf("ParseSections(\"\") = %#v, want empty", got)
	}
}

func TestParseSectionsNoHeadings(t *testing.T) {
	got := ParseSections("no heading text with no markers\njust prose")
	if len(got) != 0 {
		t.Errorf("ParseSections without headings = %#v, want empty", got)
	}
}

func TestParseSectionsHeadingWithoutBody(t *testing.T) {
	got := ParseSections("## Lonely")
	want := []Section{{Heading: "Lonely", Content: ""}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSections = %#v, want %#v", got, want)
	}
}

func TestStringifySectionsFiltersIncomplete(t *testing.T) {
	sections := []Section{
		{Heading: "A", Content: ""},
		{Heading: "B", Content: "text"},
		{Heading: "", Content: "orphan"},
		{Heading: "C", Content: "   "},
	}
	got := StringifySections(sections)
	want := "## B\n\ntext"
	if got != want {
		t.Errorf("StringifySections = %q, want %q", got, want)
	}
}

func TestSectionsRoundTrip(t *testing.T) {
	sections := []Section{
		{Heading: "Uvod", Content: "prvi odstavek"},
		{Heading: "Diagnoza", Content: "drugi odstavek\n\nz dvema odstavkoma"},
		{Heading: "Zaključek", Content: "konec"},
	}
	md := StringifySections(sections)
	parsed := ParseSections(md)

	if len(parsed) != len(sections) {
		t.Fatalf("round trip changed section count: got %d, want %d", len(parsed), len(sections))
	}
	for i := range sections {
		if parsed[i].Heading != sections[i].Heading {
			t.Errorf("section %d heading = %q, want %q", i, parsed[i].Heading, sections[i].Heading)
		}
		if parsed[i].Content != sections[i].Content {
			t.Errorf("section %d content = %q, want %q", i, parsed[i].Content, sections[i].Content)
		}
	}

	// Idempotence under the completeness filter.
	if again := StringifySections(parsed); again != md {
		t.Errorf("stringify(parse(stringify)) = %q, want %q", again, md)
	}
}

func TestAttachImages(t *testing.T) {
	sections := []Section{{Heading: "A", Content: "x"}}
	got := AttachImages(sections, []string{"cover.jpg", "sec1.jpg"})
	if got[0].ImageURL != "sec1.jpg" {
		t.Errorf("section image = %q, want %q", got[0].ImageURL, "sec1.jpg")
	}
}

func TestAttachImagesMissingEntries(t *testing.T) {
	sections := []Section{
		{Heading: "A", Content: "x"},
		{Heading: "B", Content: "y"},
	}
	got := AttachImages(sections, []string{"cover.jpg", "sec1.jpg"})
	if got[0].ImageURL != "sec1.jpg" {
		t.Errorf("first section image = %q, want %q", got[0].ImageURL, "sec1.jpg")
	}
	if got[1].ImageURL != "" {
		t.Errorf("second section image = %q, want empty", got[1].ImageURL)
	}
}
