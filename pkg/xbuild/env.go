package xbuild

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/expand"
)

const (
	sourceVar = "BUILD_SOURCE"
	outputVar = "BUILD_OUTPUT"
)

func envKey(item string) string {
	key := strings.SplitN(item, "=", 2)[0]
	if runtime.GOOS == "windows" {
		key = strings.ToUpper(key)
	}
	return key
}

// mergeEnv returns parent without any entry listed in drop or overrides, followed by overrides.
func mergeEnv(parent []string, overrides map[string]string, drop ...string) []string {
	skip := make(map[string]bool, len(overrides)+len(drop))
	for k := range overrides {
		skip[k] = true
	}
	for _, k := range drop {
		skip[k] = true
	}

	result := make([]string, 0, len(parent)+len(overrides))
	for _, item := range parent {
		if !skip[envKey(item)] {
			result = append(result, item)
		}
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		result = append(result, fmt.Sprintf("%s=%s", k, overrides[k]))
	}

	return result
}

// targetEnvVars builds the environment of a single build. Selectors inherited from our
// own environment are always removed so that e.g. a GOMIPS set by the caller never ends up
// in a build without a variant.
func targetEnvVars(opts *Options, target Target) []string {
	overrides := target.Selectors(opts.VariantSelector)
	overrides[sourceVar] = opts.Source
	overrides[outputVar] = opts.ArtifactPath(target)

	return mergeEnv(os.Environ(), overrides, osSelector, archSelector, opts.VariantSelector)
}

func getTargetEnv(opts *Options, target Target) expand.Environ {
	return expand.ListEnviron(targetEnvVars(opts, target)...)
}
