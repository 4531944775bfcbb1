package mcpserver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	t.Run("default limit", func(t *testing.T) {
		assert.Equal(t, items, paginate(items, 0, 0))
	})

	t.Run("offset and limit", func(t *testing.T) {
		assert.Equal(t, []int{3, 4}, paginate(items, 2, 2))
	})

	t.Run("offset beyond slice", func(t *testing.T) {
		assert.Nil(t, paginate(items, 10, 2))
	})

	t.Run("negative offset", func(t *testing.T) {
		assert.Nil(t, paginate(items, -1, 2))
	})

	t.Run("limit capped at max", func(t *testing.T) {
		assert.Equal(t, items, paginate(items, 0, cfg.MaxLimit+1))
	})
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[int](0))

	s := makeSlice[int](3)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}

func TestSanitizeError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Empty(t, sanitizeError(nil))
	})

	t.Run("strips absolute paths", func(t *testing.T) {
		err := fmt.Errorf("open /home/user/secret/spec.yaml: no such file")
		msg := sanitizeError(err)
		assert.NotContains(t, msg, "/home/user")
		assert.Contains(t, msg, "<path>")
	})

	t.Run("plain message untouched", func(t *testing.T) {
		err := errors.New("reference cycle: ./a.yaml")
		assert.Equal(t, "reference cycle: ./a.yaml", sanitizeError(err))
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	c := loadConfig()
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, 100, c.RewriteLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.False(t, c.CheckOutput)
}

func TestEnvHelpers(t *testing.T) {
	t.Run("bool valid", func(t *testing.T) {
		t.Setenv("APIMPREP_TEST_BOOL", "true")
		assert.True(t, envBool("APIMPREP_TEST_BOOL", false))
	})

	t.Run("bool invalid falls back", func(t *testing.T) {
		t.Setenv("APIMPREP_TEST_BOOL", "not-a-bool")
		assert.True(t, envBool("APIMPREP_TEST_BOOL", true))
	})

	t.Run("int valid", func(t *testing.T) {
		t.Setenv("APIMPREP_TEST_INT", "42")
		assert.Equal(t, 42, envInt("APIMPREP_TEST_INT", 7))
	})

	t.Run("int non-positive falls back", func(t *testing.T) {
		t.Setenv("APIMPREP_TEST_INT", "-1")
		assert.Equal(t, 7, envInt("APIMPREP_TEST_INT", 7))
	})

	t.Run("int64 valid", func(t *testing.T) {
		t.Setenv("APIMPREP_TEST_INT64", "1048576")
		assert.Equal(t, int64(1048576), envInt64("APIMPREP_TEST_INT64", 10))
	})
}
