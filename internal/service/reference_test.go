package service

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var referencePattern = regexp.MustCompile(`^BR[0-9A-Z]+$`)

func TestNewBookingReferenceFormat(t *testing.T) {
	ref := NewBookingReference()

	assert.True(t, strings.HasPrefix(ref, "BR"), "reference %q must start with BR", ref)
	assert.Regexp(t, referencePattern, ref)
	// base36 millisecond timestamp (8+ chars) plus 6 random chars
	assert.GreaterOrEqual(t, len(ref), 2+8+6)
}

func TestNewBookingReferenceVaries(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		ref := NewBookingReference()
		_, dup := seen[ref]
		assert.False(t, dup, "duplicate reference %q", ref)
		seen[ref] = struct{}{}
	}
}
