// Package render вывод html заметок в терминал: html -> markdown -> ansi.
package render

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
)

const DefaultWordWrap = 80

type Options struct {
	// Style стиль glamour, пустой означает автоопределение по терминалу.
	Style    string
	WordWrap int
}

func WithStyle(style string) func(*Options) {
	return func(o *Options) {
		o.Style = style
	}
}

func WithWordWrap(width int) func(*Options) {
	return func(o *Options) {
		o.WordWrap = width
	}
}

type Renderer struct {
	md   *converter.Converter
	term *glamour.TermRenderer
}

func New(opts ...func(*Options)) (*Renderer, error) {
	o := Options{WordWrap: DefaultWordWrap}
	for _, opt := range opts {
		opt(&o)
	}

	style := glamour.WithAutoStyle()
	if o.Style != "" {
		style = glamour.WithStandardStyle(o.Style)
	}
	term, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(o.WordWrap))
	if err != nil {
		return nil, errors.Wrap(err, "create terminal renderer")
	}

	return &Renderer{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		term: term,
	}, nil
}

// Markdown переводит html заметки в markdown.
func (r *Renderer) Markdown(html string) (string, error) {
	md, err := r.md.ConvertString(html)
	if err != nil {
		return "", errors.Wrap(err, "convert html to markdown")
	}
	return strings.TrimSpace(md), nil
}

// Terminal готовит html заметки к выводу в терминал.
func (r *Renderer) Terminal(html string) (string, error) {
	md, err := r.Markdown(html)
	if err != nil {
		return "", err
	}
	out, err := r.term.Render(md)
	if err != nil {
		return "", errors.Wrap(err, "render markdown")
	}
	return out, nil
}
