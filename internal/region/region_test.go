package region

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, raw := range []string{"pa", "PA", " Pa ", "pA"} {
		c, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, PA, c)
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "SP", "PAR", "logout"} {
		_, err := Parse(raw)
		assert.True(t, errors.Is(err, ErrInvalid), raw)
	}
}

func TestAllIsACopy(t *testing.T) {
	codes := All()
	require.Equal(t, []Code{MA, PA, PI, AL}, codes)

	codes[0] = "XX"
	assert.Equal(t, MA, All()[0])
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Pará", PA.Name())
	assert.True(t, AL.Valid())
	assert.False(t, Code("RJ").Valid())
}
