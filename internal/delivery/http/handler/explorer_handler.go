package handler

import (
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ExplorerData - данные для шаблона страницы анализа
type ExplorerData struct {
	Title        string
	APIBase      string
	DefaultPlace string
	Policies     []ExplorerOption
}

// ExplorerOption - пункт выпадающего списка
type ExplorerOption struct {
	Value    string
	Label    string
	Selected bool
}

// ExplorerHandler рендерит HTML-страницу, которая вызывает /analysis/place и показывает оверлей
type ExplorerHandler struct {
	templates *template.Template
	data      ExplorerData
}

// NewExplorerHandler - шаблоны встроены в бинарник
func NewExplorerHandler(apiBase string) (*ExplorerHandler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &ExplorerHandler{
		templates: tmpl,
		data: ExplorerData{
			Title:        "Landcover Explorer",
			APIBase:      apiBase,
			DefaultPlace: "Lviv",
			Policies:     DefaultPolicies(),
		},
	}, nil
}

// DefaultPolicies - варианты политики посадки
func DefaultPolicies() []ExplorerOption {
	return []ExplorerOption{
		{Value: "auto", Label: "Авто (AQI, если доступен)", Selected: true},
		{Value: "coverage", Label: "До целевого покрытия"},
		{Value: "aqi", Label: "По индексу качества воздуха"},
	}
}

// RenderExplorer - GET /explorer
func (h *ExplorerHandler) RenderExplorer(c *fiber.Ctx) error {
	data := h.data
	if place := c.Query("place"); place != "" {
		data.DefaultPlace = place
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return h.templates.ExecuteTemplate(c.Response().BodyWriter(), "explorer.html", data)
}
