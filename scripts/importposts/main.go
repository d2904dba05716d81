package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/fmujezinovic/mojblog/internal/models"

	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header of a Markdown source file.
type frontMatter struct {
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Category    string      `yaml:"category"`
	PublishDate interface{} `yaml:"publishDate"` // several date formats appear in the wild
	Draft       bool        `yaml:"draft"`
}

var frontMatterRegex = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n`)

// Converts a directory of Markdown files with YAML front matter into the
// JSON backup format accepted by the dashboard import.
func main() {
	postsDir := flag.String("dir", "content", "directory of .md files")
	outputFile := flag.String("out", "backup.json", "output file")
	flag.Parse()

	var posts []models.PostBackup

	err := filepath.Walk(*postsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".md") {
			return nil
		}

		fmt.Printf("processing %s\n", path)

		contentBytes, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("failed to read %s: %v\n", path, err)
			return nil
		}
		contentStr := string(contentBytes)

		matches := frontMatterRegex.FindStringSubmatch(contentStr)
		if len(matches) < 2 {
			fmt.Printf("no front matter in %s, skipping\n", path)
			return nil
		}

		var fm frontMatter
		if err := yaml.Unmarshal([]byte(matches[1]), &fm); err != nil {
			fmt.Printf("failed to parse front matter in %s: %v\n", path, err)
			return nil
		}

		body := strings.TrimSpace(frontMatterRegex.ReplaceAllString(contentStr, ""))

		posts = append(posts, models.PostBackup{
			Title:       fm.Title,
			ContentMD:   body,
			Description: fm.Description,
			Category:    fm.Category,
			IsDraft:     fm.Draft,
			PublishedAt: parsePublishDate(fm.PublishDate),
		})
		return nil
	})
	if err != nil {
		fmt.Printf("walk failed: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		fmt.Printf("failed to marshal backup: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outputFile, data, 0o644); err != nil {
		fmt.Printf("failed to write %s: %v\n", *outputFile, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d posts to %s\n", len(posts), *outputFile)
}

func parsePublishDate(raw interface{}) *time.Time {
	switch v := raw.(type) {
	case time.Time:
		return &v
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
	}
	return nil
}
