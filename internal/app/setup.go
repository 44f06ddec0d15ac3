package app

import (
	"github.com/rs/zerolog"

	"plan-editor/internal/config"
	"plan-editor/internal/editor"
	"plan-editor/pkg/geometry"
)

// NewSession creates an editor configured from cfg and its session state.
func NewSession(cfg config.Config, log zerolog.Logger, opts ...editor.Option) *State {
	base := []editor.Option{
		editor.WithSnap(cfg.Editor.Snap),
		editor.WithHitRadius(cfg.Editor.HitRadius),
		editor.WithHistoryLimit(cfg.History.Limit),
		editor.WithWorldSize(geometry.NewSize(float64(cfg.Export.DefaultWidth), float64(cfg.Export.DefaultHeight))),
		editor.WithLogger(log),
	}
	e := editor.New(append(base, opts...)...)
	return NewState(e, cfg.Export, log)
}
