package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileNameFromURL(t *testing.T) {
	assert.Equal(t, "hero.png", fileNameFromURL("https://cdn.example.com/users/1/hero.png"))
	assert.Equal(t, "a.jpg", fileNameFromURL("https://cdn.example.com/a.jpg?width=200"))

	// Unparseable or pathless URLs fall back to a generated name.
	for _, raw := range []string{"", "https://cdn.example.com", "http://%zz"} {
		name := fileNameFromURL(raw)
		assert.True(t, strings.HasPrefix(name, "image-"), "got %q for %q", name, raw)
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", contentTypeFor("hero.PNG"))
	assert.Equal(t, "image/jpeg", contentTypeFor("a.jpg"))
	assert.Equal(t, "image/jpeg", contentTypeFor("a.jpeg"))
	assert.Equal(t, "image/webp", contentTypeFor("a.webp"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("mystery"))
}

func TestProgressReporterClamps(t *testing.T) {
	var got []int
	p := &progressReporter{fn: func(message string, percent int) {
		got = append(got, percent)
	}}

	p.report("a", 10)
	p.report("b", 5)   // never goes backwards
	p.report("c", 150) // capped
	p.report("d", 60)  // stays at the cap once reached

	assert.Equal(t, []int{10, 10, 100, 100}, got)

	// Nil callback is a no-op.
	q := &progressReporter{}
	q.report("e", 50)
}
