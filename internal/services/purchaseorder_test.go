package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPONumber(t *testing.T) {
	pattern := regexp.MustCompile(`^PO-[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number := newPONumber()
		assert.Regexp(t, pattern, number)
		assert.False(t, seen[number], "duplicate PO number %s", number)
		seen[number] = true
	}
}
