// Package pdf renders HTML to single-page, content-sized PDF documents.
package pdf

import (
	"context"
	"errors"
)

// ErrRenderFailure is returned whenever a render cannot complete; there is
// no partial or degraded output.
var ErrRenderFailure = errors.New("render_failure")

type Renderer interface {
	// Render wraps the HTML fragment in the print shell, lays it out in a
	// real browser engine, and returns PDF bytes sized to the content.
	Render(ctx context.Context, htmlFragment string) ([]byte, error)
}

type NoOpRenderer struct{}

func (r *NoOpRenderer) Render(ctx context.Context, htmlFragment string) ([]byte, error) {
	return []byte("%PDF-1.4\n%%EOF\n"), nil
}
