package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mapvis/pkg/observability"
)

// logHooks reports pipeline, cache and server events at debug level.
type logHooks struct {
	logger *log.Logger
}

// observeWithLogger registers logHooks for every hook family.
func observeWithLogger(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h logHooks) OnBuildStart(_ context.Context, scene string, panels int) {
	h.logger.Debug("build started", "scene", scene, "panels", panels)
}

func (h logHooks) OnBuildComplete(_ context.Context, scene string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "scene", scene, "error", err)
		return
	}
	h.logger.Debug("build complete", "scene", scene, "duration", d)
}

func (h logHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render started", "format", format)
}

func (h logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("render complete", "format", format, "bytes", size, "duration", d)
}

func (h logHooks) OnClick(_ context.Context, panel int, date time.Time, err error) {
	h.logger.Debug("chart click", "panel", panel, "date", date.Format(time.DateOnly), "error", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}
