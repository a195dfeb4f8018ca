package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/flip7/internal/web/templates/layout"
)

func TestFlashRoundTripsThroughCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetFlash(rec, "error", "Could not join lobby: not found, sorry")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	var got *layout.FlashMessage
	out := httptest.NewRecorder()
	Flash()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = GetFlash(r.Context())
	})).ServeHTTP(out, req)

	require.NotNil(t, got)
	assert.Equal(t, "error", got.Type)
	assert.Equal(t, "Could not join lobby: not found, sorry", got.Message)

	// The cookie is cleared once read
	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestParseFlashWithoutType(t *testing.T) {
	assert.Equal(t, &layout.FlashMessage{Type: "info", Message: "hello"}, parseFlash("hello"))
}
