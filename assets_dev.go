//go:build !release

package main

import (
	"log"
	"os"
)

// Development builds read templates and static assets straight from disk so
// edits show up on reload.
func init() {
	log.Println("serving templates and static assets from disk")
	templatesFS = os.DirFS("templates")
	staticFS = os.DirFS("static")
}
