package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngld/xbuild/pkg"
	"github.com/ngld/xbuild/pkg/xbuild"
)

func chdir(t *testing.T, dir string) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
	})
}

func TestTargetsCmd(t *testing.T) {
	chdir(t, t.TempDir())

	var out bytes.Buffer
	TargetsCmd.SetOut(&out)
	TargetsCmd.SetArgs([]string{"--arch", "arm64,mips", "--variant", "hardfloat,softfloat"})
	require.NoError(t, TargetsCmd.Execute())

	lines := out.String()
	assert.Contains(t, lines, "linux/arm64:")
	assert.Contains(t, lines, "ip_changer_arm64_default")
	assert.Contains(t, lines, "linux/mips/hardfloat:")
	assert.Contains(t, lines, "ip_changer_mips_hardfloat")
	assert.Contains(t, lines, "ip_changer_mips_softfloat")
}

func TestCompileCmdReportsFailures(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	var out bytes.Buffer
	pkg.Output = &out
	t.Cleanup(func() {
		pkg.Output = os.Stdout
	})

	reportFile := filepath.Join(dir, "report.yml")
	RootCmd.SetOut(&bytes.Buffer{})
	RootCmd.SetErr(&bytes.Buffer{})
	RootCmd.SetArgs([]string{
		"--arch", "mips,arm64",
		"--variant", "hardfloat",
		"--command", `test "$GOARCH" != mips || exit 1`,
		"--report", reportFile,
		"--log-level", "error",
	})
	require.Error(t, RootCmd.Execute())

	report, err := xbuild.ReadReport(reportFile)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "ip_changer_mips_hardfloat", report.Results[0].Artifact)
	assert.True(t, report.Results[0].Failed())
	assert.False(t, report.Results[1].Failed())

	assert.Contains(t, out.String(), "Built 1 of 2 targets, failed:")
	assert.Contains(t, out.String(), "ip_changer_mips_hardfloat (linux/mips/hardfloat)")
}

func TestTargetsCmdWithDebugEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XBUILD_DEBUG", "true")

	var out bytes.Buffer
	TargetsCmd.SetOut(&out)
	TargetsCmd.SetArgs([]string{"--arch", "arm64"})
	require.NoError(t, TargetsCmd.Execute())
	assert.Contains(t, out.String(), "ip_changer_arm64_default")
}
