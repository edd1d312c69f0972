// Package templates holds the dashboard's HTML components.
//
// Components are templ.Component values, so handlers render them the same
// way whether they are whole pages or fragments. Every dataset value is
// written through templ.EscapeString; observation comments are untrusted.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) num(n int) {
	h.raw(strconv.Itoa(n))
}

// attr writes ` name="value"` with value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="`)
	h.text(value)
	h.raw(`"`)
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Page describes the document around a body component.
type Page struct {
	Title string

	// RefreshSeconds adds a meta refresh when positive.
	RefreshSeconds int
}

// Layout wraps body in the shared document shell.
func Layout(p Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if p.RefreshSeconds > 0 {
			h.raw(`<meta http-equiv="refresh" content="`)
			h.num(p.RefreshSeconds)
			h.raw(`">`)
		}
		h.raw(`<title>`)
		h.text(p.Title)
		h.raw(`</title><link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script src="/static/app.js" defer></script></head><body><main>`)
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}
