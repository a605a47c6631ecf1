package xbuild

// HasVariants returns true if builds for arch iterate over the variant list
func (m Matrix) HasVariants(arch string) bool {
	for _, item := range m.VariantArchs {
		if item == arch {
			return true
		}
	}

	return false
}

func (m Matrix) variants() []string {
	if len(m.Variants) == 0 {
		// a missing variant list behaves like a list with a single "no variant" entry
		return []string{""}
	}

	return m.Variants
}

// Targets resolves the matrix into the list of targets in build order:
// OS first, then architecture, then variant.
func (m Matrix) Targets() []Target {
	result := make([]Target, 0, m.Count())

	for _, goos := range m.OSes {
		for _, arch := range m.Archs {
			if m.HasVariants(arch) {
				for _, variant := range m.variants() {
					result = append(result, Target{OS: goos, Arch: arch, Variant: variant})
				}
			} else {
				result = append(result, Target{OS: goos, Arch: arch})
			}
		}
	}

	return result
}

// Count returns the number of targets in this matrix without resolving them
func (m Matrix) Count() int {
	perOS := 0
	for _, arch := range m.Archs {
		if m.HasVariants(arch) {
			perOS += len(m.variants())
		} else {
			perOS++
		}
	}

	return len(m.OSes) * perOS
}
