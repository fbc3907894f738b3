package render

import (
	"context"
	"io"
)

// Renderer turns a prepared PageView into an output document (HTML page,
// plain-text summary, ...). Implementations must not retain the view.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, w io.Writer, view PageView) error
}
