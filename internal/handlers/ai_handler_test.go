package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	return f.text, f.err
}

func postAI(t *testing.T, h *AIHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai", bytes.NewReader([]byte(body)))
	rr := httptest.NewRecorder()
	h.Generate(rr, req)
	return rr
}

func TestAIGenerate(t *testing.T) {
	t.Run("unconfigured service", func(t *testing.T) {
		h := NewAIHandler(nil)
		rr := postAI(t, h, `{"prompt":"summarize"}`)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "AI API key is not configured")
	})

	t.Run("text response", func(t *testing.T) {
		h := NewAIHandler(&fakeGenerator{text: "Markets were calm today."})
		rr := postAI(t, h, `{"prompt":"summarize"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Success bool   `json:"success"`
			Text    string `json:"text"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Markets were calm today.", resp.Text)
	})

	t.Run("json type extracts fenced payload", func(t *testing.T) {
		h := NewAIHandler(&fakeGenerator{text: "```json\n{\"sentiment\":\"bullish\"}\n```"})
		rr := postAI(t, h, `{"prompt":"summarize","type":"json"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Success bool            `json:"success"`
			Text    string          `json:"text"`
			Data    json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "```json\n{\"sentiment\":\"bullish\"}\n```", resp.Text)
		assert.JSONEq(t, `{"sentiment":"bullish"}`, string(resp.Data))
	})

	t.Run("json type degrades to null data", func(t *testing.T) {
		h := NewAIHandler(&fakeGenerator{text: "not json at all"})
		rr := postAI(t, h, `{"prompt":"summarize","type":"json"}`)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "null", string(resp["data"]))
		assert.Equal(t, `"not json at all"`, string(resp["text"]))
	})

	t.Run("upstream failure", func(t *testing.T) {
		h := NewAIHandler(&fakeGenerator{err: errors.New("quota exceeded")})
		rr := postAI(t, h, `{"prompt":"summarize"}`)
		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("empty prompt", func(t *testing.T) {
		h := NewAIHandler(&fakeGenerator{text: "x"})
		rr := postAI(t, h, `{"prompt":"  "}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
