//go:build ignore

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

var (
	m                 = minify.New()
	assetReplacements = map[string]string{
		"style.css": "style.min.css",
		"main.js":   "main.min.js",
	}
)

func init() {
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/javascript", js.Minify)
}

func main() {
	release := flag.Bool("release", false, "Process assets for release")
	clean := flag.Bool("clean", false, "Clean processed assets and restore original files")
	flag.Parse()

	if *release && *clean {
		log.Fatal("Cannot use -release and -clean flags simultaneously.")
	}

	if *release {
		fmt.Println("Processing assets for release...")
		if err := processAssets(); err != nil {
			log.Fatalf("Failed to process assets for release: %v", err)
		}
		fmt.Println("Assets processed successfully.")
	} else if *clean {
		fmt.Println("Cleaning up processed assets...")
		if err := cleanupAssets(); err != nil {
			log.Fatalf("Failed to clean up assets: %v", err)
		}
		fmt.Println("Cleanup complete.")
	} else {
		fmt.Println("No action specified. Use -release to process assets or -clean to clean up.")
	}
}

func processAssets() error {
	for original, minified := range assetReplacements {
		path, err := findAsset(original)
		if err != nil {
			return err
		}
		if err := minifyFile(path, filepath.Join(filepath.Dir(path), minified)); err != nil {
			return fmt.Errorf("failed to minify %s: %w", original, err)
		}
	}
	return updateHTMLReferences(assetReplacements)
}

func cleanupAssets() error {
	restore := make(map[string]string, len(assetReplacements))
	for original, minified := range assetReplacements {
		restore[minified] = original
	}
	if err := updateHTMLReferences(restore); err != nil {
		return err
	}

	for _, minified := range assetReplacements {
		path, err := findAsset(minified)
		if err != nil {
			continue // never produced
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

func findAsset(name string) (string, error) {
	var found string
	err := filepath.Walk("static", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.Name() == name {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("asset %s not found under static/", name)
	}
	return found, nil
}

func minifyFile(src, dst string) error {
	mediatype := "text/css"
	if strings.HasSuffix(src, ".js") {
		mediatype = "text/javascript"
	}

	in, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	out, err := m.Bytes(mediatype, in)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, out, 0o644)
}

func updateHTMLReferences(replacements map[string]string) error {
	return filepath.Walk("templates", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		updated := string(content)
		for from, to := range replacements {
			updated = strings.ReplaceAll(updated, from, to)
		}
		if updated == string(content) {
			return nil
		}
		return os.WriteFile(path, []byte(updated), info.Mode())
	})
}
