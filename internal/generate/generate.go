// Package generate runs one merge: it computes the bindings of a mapping
// and rewrites the generated entries of the mapping's preset.
package generate

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"github.com/PixPMusic/gopher-mixxx/internal/config"
	"github.com/PixPMusic/gopher-mixxx/internal/preset"
)

// Generator merges mapping bindings into presets.
type Generator struct {
	Config *config.Config
	Logger *slog.Logger
	Now    func() time.Time
}

// New returns a generator using the wall clock.
func New(cfg *config.Config, logger *slog.Logger) *Generator {
	return &Generator{Config: cfg, Logger: logger, Now: time.Now}
}

// Run regenerates the preset of the named mapping. Nothing is written
// unless every step succeeds.
func (g *Generator) Run(name string) error {
	src, err := Resolve(g.Config, name, g.Logger)
	if err != nil {
		return fault.Wrap(err,
			fmsg.WithDesc("resolve mapping", "No mapping named "+name),
			ftag.With(notFoundOr(err, ftag.Internal)))
	}
	return g.RunSource(src, g.Config.PresetPath(name))
}

// RunSource merges the bindings of src into the preset at path.
func (g *Generator) RunSource(src Source, path string) error {
	logger := g.Logger.With("mapping", src.Name(), "preset", path)

	p, err := preset.Load(path)
	if err != nil {
		return fault.Wrap(err,
			fmsg.WithDesc("load preset", "Could not read preset "+path),
			ftag.With(notFoundOr(err, ftag.InvalidArgument)))
	}

	scriptBindings, err := src.ScriptBindings()
	if err != nil {
		return fault.Wrap(err,
			fmsg.With("parse handler bindings"),
			ftag.With(notFoundOr(err, ftag.InvalidArgument)))
	}

	tableBindings, err := src.TableBindings()
	if err != nil {
		return fault.Wrap(err,
			fmsg.With("extract mapping table"),
			ftag.With(notFoundOr(err, ftag.Internal)))
	}

	manualControls, generatedControls := preset.Partition(p.Controls())
	manualOutputs, generatedOutputs := preset.Partition(p.Outputs())
	logger.Debug("partitioned preset",
		"manual_controls", len(manualControls),
		"generated_controls", len(generatedControls),
		"manual_outputs", len(manualOutputs),
		"generated_outputs", len(generatedOutputs))

	p.Merge(scriptBindings, tableBindings, preset.OutputStyle{
		On:      g.Config.OnColor,
		Minimum: g.Config.OutputMinimum,
	})
	if g.Config.StampInfo {
		p.Stamp(g.Now())
	}

	if err := p.Save(path); err != nil {
		return fault.Wrap(err,
			fmsg.WithDesc("save preset", "Could not write preset "+path),
			ftag.With(ftag.Internal))
	}

	logger.Info("preset updated",
		"script_bindings", len(scriptBindings),
		"table_bindings", len(tableBindings))
	return nil
}

func notFoundOr(err error, kind ftag.Kind) ftag.Kind {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrUnknownMapping) {
		return ftag.NotFound
	}
	return kind
}
