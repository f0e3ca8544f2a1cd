package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/globalaidnetwork/internal/content"
	"github.com/globalaidnetwork/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var (
	// 仅识别段落和换行，其余文本按原样输出
	plainTextEngine = goldmark.New(
		goldmark.WithParser(parser.NewParser(
			parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		)),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	// backslashes and entities would otherwise be read as escapes
	plainTextEscaper = strings.NewReplacer(`\`, `\\`, "&", "&amp;")
	sanitizer        = bluemonday.UGCPolicy()
)

// BlockData is what a block template receives.
type BlockData struct {
	ID     string
	Type   string
	Value  content.Block
	images map[uint]*db.Image
}

// Image resolves a referenced image. Deleted or unset images yield nil.
func (d BlockData) Image(id *uint) *db.Image {
	if id == nil || d.images == nil {
		return nil
	}
	return d.images[*id]
}

// RenderedBlock is one stream child rendered through its bound template.
type RenderedBlock struct {
	ID       string
	Type     string
	Template string
	HTML     template.HTML
}

// Renderer executes page and block templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the page templates and block templates found in fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(fsys, "template/*.html", "template/blocks/*.html")
	if err != nil {
		return nil, err
	}

	for _, def := range content.Definitions() {
		if tmpl.Lookup(def.Template) == nil {
			return nil, fmt.Errorf("template %s for %s block is not defined", def.Template, def.Type)
		}
	}
	return &Renderer{templates: tmpl}, nil
}

// MustNewRenderer is like NewRenderer but panics on error.
func MustNewRenderer(fsys fs.FS) *Renderer {
	r, err := NewRenderer(fsys)
	if err != nil {
		panic(err)
	}
	return r
}

// Templates exposes the parsed set for gin's HTML renderer.
func (r *Renderer) Templates() *template.Template {
	return r.templates
}

// RenderStream dispatches every child to its bound template, in body order.
func (r *Renderer) RenderStream(body content.Stream, images map[uint]*db.Image) ([]RenderedBlock, error) {
	rendered := make([]RenderedBlock, 0, len(body))
	for _, child := range body {
		def, ok := content.Lookup(child.Type)
		if !ok || child.Value == nil {
			return nil, fmt.Errorf("%w: %q", content.ErrUnknownBlockType, child.Type)
		}

		var buf bytes.Buffer
		data := BlockData{ID: child.ID, Type: child.Type, Value: child.Value, images: images}
		if err := r.templates.ExecuteTemplate(&buf, def.Template, data); err != nil {
			return nil, fmt.Errorf("render %s block: %w", child.Type, err)
		}

		rendered = append(rendered, RenderedBlock{
			ID:       child.ID,
			Type:     child.Type,
			Template: def.Template,
			HTML:     template.HTML(buf.String()),
		})
	}
	return rendered, nil
}

// FuncMap returns the helpers available to templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"paragraphs": Paragraphs,
		"icon":       IconSVG,
		"formatDate": FormatDate,
	}
}

// Paragraphs renders plain multi-line text as HTML paragraphs. Blank lines
// separate paragraphs and single newlines become <br />.
func Paragraphs(text string) template.HTML {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := plainTextEngine.Convert([]byte(plainTextEscaper.Replace(trimmed)), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(trimmed))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}

// FormatDate turns a stored 2006-01-02 date into a display date.
func FormatDate(value string) string {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return parsed.Format("January 2, 2006")
}
