package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStorageUploadAndRemove(t *testing.T) {
	root := t.TempDir()
	storage := NewStorageService(root, "https://blog.example.com/")

	path, url, err := storage.Upload("fotka.JPG", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !strings.HasSuffix(path, ".jpg") {
		t.Errorf("object path = %q, want .jpg suffix", path)
	}
	if url != "https://blog.example.com/uploads/"+path {
		t.Errorf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		t.Fatalf("stored object unreadable: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("stored bytes = %q", data)
	}

	if err := storage.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, path)); !os.IsNotExist(err) {
		t.Error("object should be gone after Remove")
	}
}

func TestStorageUploadRejectsUnknownTypes(t *testing.T) {
	storage := NewStorageService(t.TempDir(), "https://blog.example.com")

	for _, name := range []string{"skripta.js", "arhiv.zip", "brez-koncnice"} {
		if _, _, err := storage.Upload(name, strings.NewReader("x")); err == nil {
			t.Errorf("Upload(%q) should fail", name)
		}
	}
}

func TestStorageRemoveIsSafe(t *testing.T) {
	storage := NewStorageService(t.TempDir(), "https://blog.example.com")

	// Missing objects are fine, escaping the bucket is not.
	if err := storage.Remove("ne-obstaja.jpg"); err != nil {
		t.Errorf("Remove(missing) = %v, want nil", err)
	}
	if err := storage.Remove(""); err != nil {
		t.Errorf("Remove(empty) = %v, want nil", err)
	}
	if err := storage.Remove("../pobeg.jpg"); err == nil {
		t.Error("Remove must reject paths escaping the bucket root")
	}
	if err := storage.Remove("/etc/passwd"); err == nil {
		t.Error("Remove must reject absolute paths")
	}
}
