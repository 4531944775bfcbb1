package apimprep

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "dev", Version(), "development builds should report 'dev'")
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	assert.True(t, strings.HasPrefix(ua, "apimprep/"), "User-Agent should identify the tool")
	assert.Contains(t, ua, Version())
}
