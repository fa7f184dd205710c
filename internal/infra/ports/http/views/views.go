package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	Login = "login.html"
	Index = "index.html"
	Room  = "room.html"
)

type LoginData struct {
	CSRFToken    string
	ErrorMessage string
}

type RoomData struct {
	RoomCode string
	HubPath  string
}

// Renderer рендерит встроенные html-шаблоны для echo
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
