package xbuild

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRoundTrip(t *testing.T) {
	opts := testOptions(t, failMips, "mips", "arm64")

	report, err := Run(testContext(), opts, nil)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "report.yml")
	require.NoError(t, WriteReport(file, report))

	loaded, err := ReadReport(file)
	require.NoError(t, err)

	assert.Equal(t, report.RunID, loaded.RunID)
	require.Len(t, loaded.Results, 2)
	assert.Equal(t, Target{OS: "linux", Arch: "mips"}, loaded.Results[0].Target)
	assert.Equal(t, "no mips for you\n", loaded.Results[0].Stderr)
	assert.Equal(t, "built arm64\n", loaded.Results[1].Stdout)

	// errors of loaded reports only survive as text
	require.Len(t, loaded.Failed(), 1)
	assert.Nil(t, loaded.Results[0].Err())
	assert.Error(t, loaded.Err())
}

func TestReadReportMissing(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
