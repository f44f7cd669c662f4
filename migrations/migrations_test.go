package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/mabego/smartpantry-mysql/internal/assert"
)

func TestFilesArePaired(t *testing.T) {
	names, err := fs.Glob(Files, "sql/*.sql")
	assert.NilError(t, err)

	ups, downs := 0, 0
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups++
		case strings.HasSuffix(n, ".down.sql"):
			downs++
		default:
			t.Errorf("unexpected migration file %s", n)
		}
	}

	assert.Equal(t, ups, 7)
	assert.Equal(t, ups, downs)
}
