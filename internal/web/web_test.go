package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	account := &AccountView{Username: "alice", Email: "alice@x.com", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		page string
		data PageData
		want string
	}{
		{PageSignup, PageData{Form: map[string]string{"username": "alice"}, Fields: map[string]string{"email": "Invalid email format"}}, "Invalid email format"},
		{PageLogin, PageData{Error: "Invalid credentials."}, "Invalid credentials."},
		{PageLink, PageData{Account: account, LinkCode: "K7M2X9LP", InviteURL: "https://discord.gg/x"}, "K7M2X9LP"},
		{PageHome, PageData{Account: account}, "January 2, 2026"},
		{PageBan, PageData{BanReason: "Banned from service."}, "Banned from service."},
		{PageNotFound, PageData{}, "Page not found"},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, tt.page, tt.data)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestRenderEscapesInput(t *testing.T) {
	r := MustNewRenderer()
	rec := httptest.NewRecorder()

	r.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, PageLogin,
		PageData{Form: map[string]string{"identifier": `"><script>alert(1)</script>`}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
}

func TestRenderUnknownPage(t *testing.T) {
	r := MustNewRenderer()
	rec := httptest.NewRecorder()

	r.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing.html", PageData{})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
