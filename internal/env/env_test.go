package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	t.Setenv("ENV_TEST_STRING", "dados.csv")

	assert.Equal(t, "dados.csv", GetString("ENV_TEST_STRING", "x"))
	assert.Equal(t, "fallback", GetString("ENV_TEST_STRING_MISSING", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("ENV_TEST_INT", "25")
	t.Setenv("ENV_TEST_INT_BAD", "vinte")

	assert.Equal(t, 25, GetInt("ENV_TEST_INT", 1))
	assert.Equal(t, 7, GetInt("ENV_TEST_INT_BAD", 7))
	assert.Equal(t, 3, GetInt("ENV_TEST_INT_MISSING", 3))
}

func TestGetBool(t *testing.T) {
	cases := map[string]bool{
		"true":  true,
		"1":     true,
		"sim":   true,
		"false": false,
		"nao":   false,
		"0":     false,
	}
	for raw, want := range cases {
		t.Setenv("ENV_TEST_BOOL", raw)
		assert.Equal(t, want, GetBool("ENV_TEST_BOOL", !want), raw)
	}

	t.Setenv("ENV_TEST_BOOL", "talvez")
	assert.True(t, GetBool("ENV_TEST_BOOL", true))
}

func TestGetDuration(t *testing.T) {
	t.Setenv("ENV_TEST_DURATION", "15m")
	assert.Equal(t, 15*time.Minute, GetDuration("ENV_TEST_DURATION", 0))

	t.Setenv("ENV_TEST_DURATION", "30")
	assert.Equal(t, 30*time.Second, GetDuration("ENV_TEST_DURATION", 0))

	t.Setenv("ENV_TEST_DURATION", "depois")
	assert.Equal(t, time.Minute, GetDuration("ENV_TEST_DURATION", time.Minute))

	assert.Equal(t, time.Hour, GetDuration("ENV_TEST_DURATION_MISSING", time.Hour))
}
