package versions_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parleychat/parley-server/internal/versions"
)

func TestGetVersionInfo(t *testing.T) {
	t.Parallel()

	info := versions.GetVersionInfo()

	assert.Equal(t, versions.Version, info.Version)
	assert.Equal(t, versions.Commit, info.Commit)
	assert.Equal(t, versions.BuildDate, info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
