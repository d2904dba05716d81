package utils

import "strings"

// Section is one level-2 heading block of a post body. The editor works on
// sections; the database stores their concatenated Markdown.
type Section struct {
	Heading           string `json:"heading"`
	Content           string `json:"content"`
	ImageURL          string `json:"imageUrl,omitempty"`
	UploadedImagePath string `json:"uploadedImagePath,omitempty"`
}

const sectionMarker = "## "

// ParseSections splits a Markdown document into ordered {heading, content}
// records keyed on "## " lines. Content before the first heading is
// discarded; an empty document yields an empty list.
func ParseSections(markdown string) []Section {
	sections := []Section{}
	var current *Section
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		sections = append(sections, *current)
	}

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, sectionMarker) {
			flush()
			current = &Section{Heading: strings.TrimSpace(line[len(sectionMarker):])}
			body = body[:0]
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// StringifySections is the left inverse of ParseSections restricted to
// complete sections: blocks with an empty heading or empty content are
// dropped, the rest are emitted as "## heading\n\ncontent" joined by a
// blank line.
func StringifySections(sections []Section) string {
	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		heading := strings.TrimSpace(s.Heading)
		content := strings.TrimSpace(s.Content)
		if heading == "" || content == "" {
			continue
		}
		blocks = append(blocks, sectionMarker+heading+"\n\n"+content)
	}
	return strings.Join(blocks, "\n\n")
}

// AttachImages maps section i to imgs[i+1]; imgs[0] is reserved for the
// cover image. Missing entries leave the section image empty.
func AttachImages(sections []Section, imgs []string) []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		if i+1 < len(imgs) {
			s.ImageURL = imgs[i+1]
		} else {
			s.ImageURL = ""
		}
		out[i] = s
	}
	return out
}
