package cache

import (
	"testing"
	"time"

	"github.com/Domenick1991/skyrocket/config"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "localhost:6379"}, time.Minute)
	assert.NotNil(t, c)
	assert.Equal(t, time.Minute, c.offersTTL)
	assert.NoError(t, c.Close())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "EDDS|EDDF", routeField("EDDS", "EDDF"))
	assert.Equal(t, "|", routeField("", ""))
	assert.Equal(t, "lock:oauth:github:abc", callbackKey("github", "abc"))
}
