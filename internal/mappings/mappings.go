// Package mappings lists the controller mappings built into the tool.
package mappings

import (
	"github.com/PixPMusic/gopher-mixxx/internal/mapping"
	"github.com/PixPMusic/gopher-mixxx/internal/mapping/cmddv1"
	"github.com/PixPMusic/gopher-mixxx/internal/mapping/instinctp8"
)

// All returns every built-in mapping
func All() []mapping.Mapping {
	return []mapping.Mapping{
		cmddv1.Mapping,
		instinctp8.Mapping,
	}
}

// Get returns the built-in mapping of the given name
func Get(name string) (mapping.Mapping, bool) {
	switch name {
	case cmddv1.Name:
		return cmddv1.Mapping, true
	case instinctp8.Name:
		return instinctp8.Mapping, true
	default:
		return mapping.Mapping{}, false
	}
}

// Names returns the names of the built-in mappings
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))
	for _, m := range all {
		names = append(names, m.Name)
	}
	return names
}
