//go:build unit

package idgen_test

import (
	"strings"
	"testing"

	"parkspot/internal/pkg/idgen"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomGenerator(t *testing.T) {
	g := idgen.NewRandomGenerator()

	t.Run("ids are uuids and unique", func(t *testing.T) {
		a, b := g.NewID(), g.NewID()
		_, err := uuid.Parse(a)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("access codes use the unambiguous alphabet", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 200; i++ {
			code := g.NewAccessCode()
			require.Len(t, code, idgen.AccessCodeLength)
			assert.False(t, strings.ContainsAny(code, "01IO"), "code %q contains ambiguous characters", code)
			seen[code] = struct{}{}
		}
		assert.Greater(t, len(seen), 190)
	})
}
