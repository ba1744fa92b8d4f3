package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finoffice-backend/internal/config"
)

func TestExtractJSON(t *testing.T) {
	t.Run("bare object", func(t *testing.T) {
		raw, ok := ExtractJSON(`{"headline":"Markets steady","sentiment":"neutral"}`)
		require.True(t, ok)
		assert.JSONEq(t, `{"headline":"Markets steady","sentiment":"neutral"}`, string(raw))
	})

	t.Run("json code fence", func(t *testing.T) {
		raw, ok := ExtractJSON("```json\n{\"points\": [1, 2, 3]}\n```")
		require.True(t, ok)
		assert.JSONEq(t, `{"points":[1,2,3]}`, string(raw))
	})

	t.Run("plain code fence", func(t *testing.T) {
		raw, ok := ExtractJSON("```\n[\"a\", \"b\"]\n```")
		require.True(t, ok)
		assert.JSONEq(t, `["a","b"]`, string(raw))
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		raw, ok := ExtractJSON("  \n {\"ok\": true} \n ")
		require.True(t, ok)
		assert.JSONEq(t, `{"ok":true}`, string(raw))
	})

	t.Run("prose is rejected", func(t *testing.T) {
		_, ok := ExtractJSON("Here is your summary: markets were volatile today.")
		assert.False(t, ok)
	})

	t.Run("truncated json is rejected", func(t *testing.T) {
		_, ok := ExtractJSON(`{"headline": "Mark`)
		assert.False(t, ok)
	})
}

func TestNewAIService_RequiresKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.AI.Model = "gemini-2.0-flash"

	svc, err := NewAIService(cfg)
	assert.Nil(t, svc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is not configured")
}
