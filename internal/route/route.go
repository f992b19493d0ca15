// Package route defines route descriptors and the validation applied to them
// before they are registered on a server.
package route

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Verb is one of the HTTP methods routes can be declared for.
type Verb string

const (
	Get    Verb = "GET"
	Post   Verb = "POST"
	Put    Verb = "PUT"
	Delete Verb = "DELETE"
)

// Verbs lists the supported verbs in registration order. The order decides
// matching precedence for overlapping patterns on first-match servers.
var Verbs = []Verb{Get, Post, Delete, Put}

// ParseVerb converts a method or manifest key ("get", "POST") to a Verb.
func ParseVerb(s string) (Verb, bool) {
	switch v := Verb(strings.ToUpper(strings.TrimSpace(s))); v {
	case Get, Post, Put, Delete:
		return v, true
	default:
		return "", false
	}
}

// Key returns the lowercase form used as a manifest key and in error messages.
func (v Verb) Key() string {
	return strings.ToLower(string(v))
}

// Entry is a single route: a path pattern and its ordered handler chain.
type Entry struct {
	Path     string
	Handlers []gin.HandlerFunc
}

// Descriptor groups route entries by verb. A missing verb has no routes.
type Descriptor map[Verb][]Entry

// Len returns the total number of entries across all verbs.
func (d Descriptor) Len() int {
	n := 0
	for _, entries := range d {
		n += len(entries)
	}
	return n
}

// Service is a discovered service module and the routes it declares.
type Service struct {
	Filename string
	Routes   Descriptor
}
