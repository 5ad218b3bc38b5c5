package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	v, c, d := Info()
	assert.Equal(t, Version, v)
	assert.Equal(t, GitCommit, c)
	assert.Equal(t, BuildDate, d)
}

func TestString(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "1.2.3"

	assert.Equal(t, "1.2.3", Short())
	assert.True(t, strings.HasPrefix(String(), "textract-annotator 1.2.3 (commit "))
	assert.Equal(t, "textract-annotator", AppID())
}
