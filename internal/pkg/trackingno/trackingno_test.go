package trackingno

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateShape(t *testing.T) {
	pattern := regexp.MustCompile(`^GOAT-\d+-[1-9]\d{3}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, Generate())
	}
}

func TestFromTime(t *testing.T) {
	assert.Equal(t, "GOAT-1-1111", FromTime(time.Unix(1, 0), 1111))
}
