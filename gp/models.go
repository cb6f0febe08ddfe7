package gp

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/YuminosukeSato/krigo/pkg/errors"
	"github.com/YuminosukeSato/krigo/pkg/log"
)

// Models is a collection of Gaussian-process models, typically one per
// atom and property of a system. The active-learning selectors consume a
// Models value directly.
type Models []*Model

// LoadDirectory loads every "*.model" file in dir, sorted by file name.
// A single malformed file fails the whole load; partial model sets would
// silently skew multi-model selection.
func LoadDirectory(dir string) (Models, error) {
	start := time.Now()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model directory %s", dir)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ModelFileExt {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "no %s files in %s", ModelFileExt, dir)
	}

	models := make(Models, 0, len(paths))
	for _, path := range paths {
		model, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}

	logger := log.GetLoggerWithName("gp.loader")
	logger.Info("model directory loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, dir,
		"models", len(models),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return models, nil
}

// ForAtom returns the subset of models belonging to the given atom label.
func (ms Models) ForAtom(atom string) Models {
	var out Models
	for _, m := range ms {
		if m.Atom() == atom {
			out = append(out, m)
		}
	}
	return out
}

// ForProperty returns the subset of models predicting the given property.
func (ms Models) ForProperty(property string) Models {
	var out Models
	for _, m := range ms {
		if m.Property() == property {
			out = append(out, m)
		}
	}
	return out
}
