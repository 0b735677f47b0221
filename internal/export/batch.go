// Package export turns lists of URLs into spreadsheet rows of rendered
// QR composites.
package export

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lunaqr/lunaqr/internal/render"
)

// Row is one exported spreadsheet entry: the normalized URL and its rendered
// image as a data URI.
type Row struct {
	URL       string
	ImageData string
}

// RowSink receives the ordered export rows. Implementations own the output
// format; the exporter only guarantees row order matches input order.
type RowSink interface {
	WriteRows(rows []Row) error
}

// RowError records a skipped entry when the exporter runs in skip mode.
type RowError struct {
	Index int
	URL   string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Index, e.URL, e.Err)
}

// Exporter renders one row per URL and hands the ordered result to the sink.
// Each render allocates its own buffers, so a single Exporter is safe for
// concurrent use as long as the sink is not shared.
type Exporter struct {
	Renderer *render.Renderer
	Sink     RowSink

	// AbortOnError stops the whole batch at the first bad entry instead of
	// skipping it. Skip is the default.
	AbortOnError bool
}

// Export renders urls sequentially, preserving input order, and writes the
// surviving rows to the sink. In skip mode the returned slice lists every
// entry that failed; in abort mode the first failure is returned as the
// error and nothing is written.
func (e *Exporter) Export(ctx context.Context, urls []string, style render.Style, transparent bool) ([]RowError, error) {
	rows := make([]Row, 0, len(urls))
	var skipped []RowError

	for i, raw := range urls {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}
		row, err := e.renderRow(ctx, raw, style, transparent)
		if err != nil {
			if e.AbortOnError {
				return skipped, RowError{Index: i, URL: raw, Err: err}
			}
			skipped = append(skipped, RowError{Index: i, URL: raw, Err: err})
			continue
		}
		rows = append(rows, row)
	}

	if err := e.Sink.WriteRows(rows); err != nil {
		return skipped, fmt.Errorf("write rows: %w", err)
	}
	return skipped, nil
}

func (e *Exporter) renderRow(ctx context.Context, raw string, style render.Style, transparent bool) (Row, error) {
	normalized, err := NormalizeURL(raw)
	if err != nil {
		return Row{}, err
	}
	final, err := e.Renderer.Render(ctx, normalized, style, transparent)
	if err != nil {
		return Row{}, err
	}
	data, err := render.EncodeCell(final.Img)
	if err != nil {
		return Row{}, err
	}
	return Row{URL: normalized, ImageData: data}, nil
}

// NormalizeURL validates and normalizes a URL string for QR generation. It
// ensures an http/https scheme, a non-empty hostname, and returns a cleaned
// absolute URL.
func NormalizeURL(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", fmt.Errorf("URL is required")
	}
	// If missing scheme, default to https
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	u, err := url.ParseRequestURI(v)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("only http and https URLs are supported")
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL must include a valid host")
	}
	if len(v) > 4096 {
		return "", fmt.Errorf("URL is too long")
	}
	return u.String(), nil
}
