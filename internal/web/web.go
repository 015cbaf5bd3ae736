// Package web renders the server-side HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/osse101/PulseHub_Go/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names
const (
	PageSignup   = "signup.html"
	PageLogin    = "login.html"
	PageLink     = "link.html"
	PageHome     = "home.html"
	PageBan      = "ban.html"
	PageNotFound = "404.html"
)

// PageData is the common view model every page receives
type PageData struct {
	Title   string
	Error   string
	Form    map[string]string
	Fields  map[string]string
	Account *AccountView

	LinkCode  string
	InviteURL string
	BanReason string
}

// AccountView is the account shown on a page
type AccountView struct {
	Username  string
	Email     string
	Linked    bool
	CreatedAt time.Time
}

// Renderer executes the embedded page templates
type Renderer struct {
	templates *template.Template
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open template dir: %w", err)
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"formatDate": func(t time.Time) string { return t.Format("January 2, 2006") },
		"upper":      strings.ToUpper,
	}).ParseFS(sub, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{templates: tmpl}, nil
}

// MustNewRenderer is NewRenderer for process start-up
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes page with the given status. The page is executed into a buffer
// first so a template failure never produces a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, page string, data PageData) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	if err := r.templates.ExecuteTemplate(buf, page, data); err != nil {
		logger.FromContext(req.Context()).Error("Failed to render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(req.Context()).Error("Failed to write page", "page", page, "error", err)
	}
}
