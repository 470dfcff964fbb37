package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvMinutes(t *testing.T) {
	t.Setenv("TTL_SET", "30")
	t.Setenv("TTL_GARBAGE", "soon")
	t.Setenv("TTL_NEGATIVE", "-5")

	assert.Equal(t, 30*time.Minute, getEnvMinutes("TTL_SET", 15))
	assert.Equal(t, 15*time.Minute, getEnvMinutes("TTL_UNSET", 15))
	assert.Equal(t, 15*time.Minute, getEnvMinutes("TTL_GARBAGE", 15))
	assert.Equal(t, 15*time.Minute, getEnvMinutes("TTL_NEGATIVE", 15))
}
