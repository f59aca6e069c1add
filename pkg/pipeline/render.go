package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/mapvis/pkg/cache"
	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/observability"
	"github.com/matzehuels/mapvis/pkg/render"
	"github.com/matzehuels/mapvis/pkg/render/svg"
	"github.com/matzehuels/mapvis/pkg/render/term"
)

// Render produces one artifact of the display in its current state. The
// boolean reports a cache hit. Terminal output is never cached.
func (r *Runner) Render(ctx context.Context, d *Display, format string, opts Options) ([]byte, bool, error) {
	if d == nil || d.Root == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "display is nil")
	}
	if err := ValidateFormat(format); err != nil {
		return nil, false, err
	}
	opts.SetDefaults()

	if format == FormatTXT {
		return r.renderUncached(ctx, d, format, opts)
	}

	cacheKey := r.Keyer.ArtifactKey(d.StateHash(), opts.ArtifactKeyOpts(format))
	hooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			r.Logger.Debug("artifact cache hit", "format", format)
			return data, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, "artifact")

	data, _, err := r.renderUncached(ctx, d, format, opts)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// RenderAll renders every format, in order.
func (r *Runner) RenderAll(ctx context.Context, d *Display, formats []string, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, _, err := r.Render(ctx, d, f, opts)
		if err != nil {
			return nil, err
		}
		out[f] = data
	}
	return out, nil
}

func (r *Runner) renderUncached(ctx context.Context, d *Display, format string, opts Options) (data []byte, hit bool, err error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	defer func() { hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err) }()

	switch format {
	case FormatTXT:
		var s string
		s, err = term.RenderRoot(d.Root, term.WithSize(opts.Columns, opts.Rows))
		data = []byte(s)
	case FormatSVG:
		data, err = r.svg(d, opts)
	case FormatPNG:
		if data, err = r.svg(d, opts); err == nil {
			data, err = render.ToPNG(data, opts.PNGScale)
		}
	case FormatPDF:
		if data, err = r.svg(d, opts); err == nil {
			data, err = render.ToPDF(data)
		}
	}
	if err != nil {
		return nil, false, err
	}

	r.Logger.Debug("rendered", "format", format, "bytes", len(data), "duration", time.Since(start))
	return data, false, nil
}

func (r *Runner) svg(d *Display, opts Options) ([]byte, error) {
	return svg.RenderRoot(d.Root, svg.WithSize(opts.Width, opts.Height))
}
