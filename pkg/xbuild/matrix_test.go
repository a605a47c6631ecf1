package xbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "ip_changer_arm64_default", Target{OS: "linux", Arch: "arm64"}.ArtifactName("ip_changer"))
	assert.Equal(t, "ip_changer_mips_softfloat", Target{OS: "linux", Arch: "mips", Variant: "softfloat"}.ArtifactName("ip_changer"))
	// the OS doesn't show up in the name
	assert.Equal(t, "ip_changer_arm64_default", Target{OS: "darwin", Arch: "arm64"}.ArtifactName("ip_changer"))
}

func TestSelectors(t *testing.T) {
	assert.Equal(t, map[string]string{"GOOS": "linux", "GOARCH": "arm64"}, Target{OS: "linux", Arch: "arm64"}.Selectors("GOMIPS"))
	assert.Equal(t, map[string]string{"GOOS": "linux", "GOARCH": "mips", "GOMIPS": "hardfloat"},
		Target{OS: "linux", Arch: "mips", Variant: "hardfloat"}.Selectors("GOMIPS"))
}

func TestTargetsDefaultMatrix(t *testing.T) {
	m := Matrix{
		OSes:         []string{"linux"},
		Archs:        []string{"arm64"},
		VariantArchs: DefaultVariantArchs,
	}

	targets := m.Targets()
	require.Len(t, targets, 1)
	assert.Equal(t, Target{OS: "linux", Arch: "arm64"}, targets[0])
	assert.Equal(t, "ip_changer_arm64_default", targets[0].ArtifactName("ip_changer"))
}

func TestTargetsVariantOrder(t *testing.T) {
	m := Matrix{
		OSes:         []string{"linux"},
		Archs:        []string{"mips"},
		Variants:     []string{"hardfloat", "softfloat"},
		VariantArchs: DefaultVariantArchs,
	}

	names := []string{}
	for _, target := range m.Targets() {
		names = append(names, target.ArtifactName("ip_changer"))
	}

	assert.Equal(t, []string{"ip_changer_mips_hardfloat", "ip_changer_mips_softfloat"}, names)
}

func TestTargetsNestedOrder(t *testing.T) {
	m := Matrix{
		OSes:         []string{"linux", "windows"},
		Archs:        []string{"amd64", "mipsle"},
		Variants:     []string{"hardfloat", "softfloat"},
		VariantArchs: DefaultVariantArchs,
	}

	assert.Equal(t, []Target{
		{OS: "linux", Arch: "amd64"},
		{OS: "linux", Arch: "mipsle", Variant: "hardfloat"},
		{OS: "linux", Arch: "mipsle", Variant: "softfloat"},
		{OS: "windows", Arch: "amd64"},
		{OS: "windows", Arch: "mipsle", Variant: "hardfloat"},
		{OS: "windows", Arch: "mipsle", Variant: "softfloat"},
	}, m.Targets())
}

func TestVariantsOnlyForListedArchs(t *testing.T) {
	m := Matrix{
		OSes:         []string{"linux"},
		Archs:        []string{"arm", "mips64"},
		Variants:     []string{"hardfloat", "softfloat"},
		VariantArchs: DefaultVariantArchs,
	}

	for _, target := range m.Targets() {
		assert.Empty(t, target.Variant, target.String())
	}
	assert.Equal(t, 2, m.Count())
}

func TestVariantArchWithoutVariants(t *testing.T) {
	m := Matrix{
		OSes:         []string{"linux"},
		Archs:        []string{"mips"},
		VariantArchs: DefaultVariantArchs,
	}

	assert.Equal(t, []Target{{OS: "linux", Arch: "mips"}}, m.Targets())
}

func TestCount(t *testing.T) {
	cases := []Matrix{
		{OSes: []string{"linux"}, Archs: []string{"arm64"}},
		{OSes: []string{"linux", "darwin"}, Archs: []string{"arm64", "mips", "mipsle", "amd64"}, Variants: []string{"hardfloat", "softfloat"}},
		{OSes: []string{"linux", "darwin", "windows"}, Archs: []string{"mips"}, Variants: []string{"a", "b", "c"}},
		{OSes: []string{}, Archs: []string{"mips"}},
	}

	for _, m := range cases {
		m.VariantArchs = DefaultVariantArchs

		variantArchs := 0
		for _, arch := range m.Archs {
			if arch == "mips" || arch == "mipsle" {
				variantArchs++
			}
		}
		variants := len(m.Variants)
		if variants == 0 {
			variants = 1
		}

		expected := len(m.OSes) * (len(m.Archs) - variantArchs + variantArchs*variants)
		assert.Equal(t, expected, m.Count())
		assert.Len(t, m.Targets(), expected)
	}
}
