package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.RemoteEndpoint)
	assert.Equal(t, "pos.db", c.DatabasePath)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 5*time.Second, c.RetryDelay)
	assert.Equal(t, 500*time.Millisecond, c.InterTaskDelay)
	assert.False(t, c.DemoMode)
}
