// SPDX-License-Identifier: MPL-2.0

package andafile

import (
	"slices"
	"strings"
)

// GenerateAliases derives a short alias for every project by stripping the
// manifest's configured prefix and suffix from its name. Aliases are
// appended only when they differ from the name and are not already present,
// so calling GenerateAliases repeatedly is harmless.
func GenerateAliases(m *Manifest) {
	prefix, suffix := m.Config.StripPrefix, m.Config.StripSuffix
	if prefix == nil && suffix == nil {
		return
	}

	for name, p := range m.Projects {
		short := name
		if prefix != nil {
			short = strings.TrimPrefix(short, *prefix)
		}
		if suffix != nil {
			short = strings.TrimSuffix(short, *suffix)
		}
		if short == name || slices.Contains(p.Alias, short) {
			continue
		}
		p.Alias = append(p.Alias, short)
	}
}
