package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })

	Version, Commit, Date = "1.2.0", "abc1234", "2024-06-24"
	assert.Equal(t, "1.2.0 (abc1234) 2024-06-24", String())

	Date = ""
	assert.Equal(t, "1.2.0 (abc1234)", String())
}
