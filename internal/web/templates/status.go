package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/wildlife/internal/core"
)

// LoadingRefreshSeconds is how often the loading page reloads itself.
const LoadingRefreshSeconds = 2

// Loading is shown while the dataset is still being read.
func Loading(st core.Status) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="notice loading"><h1>Loading observations&hellip;</h1><p>Reading `)
		h.text(st.Source)
		h.raw(`. This page refreshes automatically.</p></section>`)
		return h.err
	})
	return Layout(Page{Title: "Loading observations", RefreshSeconds: LoadingRefreshSeconds}, body)
}

// LoadFailed is shown when the dataset could not be loaded. It replaces
// the dashboard for the rest of the process lifetime.
func LoadFailed(msg core.UserMessage) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="notice failed"><h1>Failed to load data</h1>`)
		h.component(ctx, ErrorAlert(msg.Message, msg.Action, msg.Code))
		h.raw(`</section>`)
		return h.err
	})
	return Layout(Page{Title: "Failed to load data"}, body)
}

// ErrorAlert renders a user-facing error with its suggested action and code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert" role="alert"><p class="message">`)
		h.text(message)
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p class="action">`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<p class="code">Code: `)
			h.text(code)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// ErrorPage wraps ErrorAlert in a full document.
func ErrorPage(msg core.UserMessage) templ.Component {
	return Layout(Page{Title: "Error"}, ErrorAlert(msg.Message, msg.Action, msg.Code))
}
