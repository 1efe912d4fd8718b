// Package page renders the single page served at the site root.
package page

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"

	mfs "github.com/abstractedfox/gameengine/internal/fs"
	"github.com/abstractedfox/gameengine/internal/markdown"
)

// Data is made available to page templates.
type Data struct {
	Title         string
	AudioURL      string
	AudioFilesURL string
	TracksURL     string
	StaticURL     string
	WSURL         string
}

// RenderError is returned when the page template cannot be read or executed.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render template %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

const markdownLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.StaticURL}}/style.css">
</head>
<body>
<main>{{.Body}}</main>
</body>
</html>
`

var layout = template.Must(template.New("layout").Parse(markdownLayout))

// Renderer renders one template file. The file is read on every call so
// edits show up without a restart.
type Renderer struct {
	fs     mfs.FileSystem
	name   string
	data   Data
	parser *markdown.Parser
}

// NewRenderer creates a renderer for the template name inside fsys.
func NewRenderer(fsys mfs.FileSystem, name string, data Data) *Renderer {
	return &Renderer{
		fs:     fsys,
		name:   name,
		data:   data,
		parser: markdown.NewParser(),
	}
}

// Render writes the page to w. Nothing is written when rendering fails.
func (r *Renderer) Render(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	source, err := r.fs.ReadFile(r.name)
	if err != nil {
		return &RenderError{Template: r.name, Err: err}
	}

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(r.name)) {
	case ".md", ".markdown":
		err = r.renderMarkdown(&buf, source)
	default:
		err = r.renderHTML(&buf, source)
	}
	if err != nil {
		return &RenderError{Template: r.name, Err: err}
	}

	_, err = buf.WriteTo(w)
	return err
}

func (r *Renderer) renderHTML(w io.Writer, source []byte) error {
	tmpl, err := template.New(filepath.Base(r.name)).Parse(string(source))
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r.data)
}

func (r *Renderer) renderMarkdown(w io.Writer, source []byte) error {
	doc, err := r.parser.Parse(source)
	if err != nil {
		return err
	}

	title := r.data.Title
	if doc.Title != "" {
		title = doc.Title
	}
	return layout.Execute(w, struct {
		Data
		Title string
		Body  template.HTML
	}{
		Data:  r.data,
		Title: title,
		// goldmark output is trusted: the page source is the operator's own file
		Body: template.HTML(doc.HTML),
	})
}
