package xbuild

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	// DefaultVariantToken replaces the variant in artifact names of unvaried builds
	DefaultVariantToken = "default"

	osSelector   = "GOOS"
	archSelector = "GOARCH"

	// DefaultVariantSelector is the env var that receives the variant of mips builds
	DefaultVariantSelector = "GOMIPS"
)

// DefaultVariantArchs lists the architectures that accept a GOMIPS variant.
// Other architectures might accept variants as well (i.e. GOARM) but they're only
// iterated over if they're explicitly added to the list.
var DefaultVariantArchs = []string{"mips", "mipsle"}

// Target is one (OS, architecture, variant) combination. An empty Variant means
// the target is built without a variant selector.
type Target struct {
	OS      string `yaml:"os"`
	Arch    string `yaml:"arch"`
	Variant string `yaml:"variant,omitempty"`
}

// ArtifactName returns the file name of the binary built for this target.
// The OS is not part of the name.
func (t Target) ArtifactName(base string) string {
	variant := t.Variant
	if variant == "" {
		variant = DefaultVariantToken
	}

	return fmt.Sprintf("%s_%s_%s", base, t.Arch, variant)
}

// Selectors returns the environment selectors for this target. The variant selector
// is only included if the target has a variant.
func (t Target) Selectors(variantSelector string) map[string]string {
	result := map[string]string{
		osSelector:   t.OS,
		archSelector: t.Arch,
	}

	if t.Variant != "" {
		result[variantSelector] = t.Variant
	}

	return result
}

func (t Target) String() string {
	if t.Variant == "" {
		return t.OS + "/" + t.Arch
	}

	return t.OS + "/" + t.Arch + "/" + t.Variant
}

// Matrix describes the configured lists which are combined into targets
type Matrix struct {
	OSes         []string
	Archs        []string
	Variants     []string
	VariantArchs []string
}

// Options contains everything Run and CompileTarget need to know
type Options struct {
	Matrix Matrix

	// Dir is the working directory of the build command
	Dir string
	// Source is the entry point passed to the build command as $BUILD_SOURCE
	Source string
	// Output is the base name for all artifacts
	Output string
	// OutDir is prepended to each artifact name (relative to Dir); it's created if it's missing
	OutDir string
	// Command is a shell script that performs the actual build
	Command string
	// VariantSelector is the env var used to pass the variant (GOMIPS)
	VariantSelector string
	// Compress is either empty or one of the CompressionFormats
	Compress string

	DryRun bool
}

// ArtifactPath returns the path of the artifact for the given target relative to Dir
func (o *Options) ArtifactPath(t Target) string {
	name := t.ArtifactName(o.Output)
	if o.OutDir == "" {
		return name
	}

	return filepath.Join(o.OutDir, name)
}

// Result is the outcome of a single build
type Result struct {
	Target    Target        `yaml:"target"`
	Artifact  string        `yaml:"artifact"`
	Stdout    string        `yaml:"stdout,omitempty"`
	Stderr    string        `yaml:"stderr,omitempty"`
	Error     string        `yaml:"error,omitempty"`
	Skipped   bool          `yaml:"skipped,omitempty"`
	Packed    string        `yaml:"packed,omitempty"`
	PackError string        `yaml:"pack_error,omitempty"`
	Duration  time.Duration `yaml:"duration"`

	err error
}

// Err returns the error that caused this build to fail (or nil)
func (r *Result) Err() error {
	return r.err
}

// Failed returns true if the build didn't succeed
func (r *Result) Failed() bool {
	return r.err != nil || r.Error != ""
}
