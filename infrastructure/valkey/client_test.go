package valkey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_PrefixHandling(t *testing.T) {
	client := &Client{keyPrefix: "postpolice:"}

	assert.Equal(t, "postpolice:summary", client.Key("summary"))
	assert.Equal(t, "postpolice:a:b", client.Key("a", "b"))
	assert.Equal(t, "postpolice", client.Key())
}

func TestKey_NoPrefix(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "summary:abc", client.Key("summary:abc"))
}

// A client that exhausts its bounded retries must end in StateFailed and
// still be usable for state observation.
func TestNewClient_FailedConnectLeavesFailedState(t *testing.T) {
	client, err := NewClient(Config{
		Address:        "127.0.0.1:1", // nothing listens here
		ConnectTimeout: 50 * time.Millisecond,
		MaxAttempts:    1,
		RetryBackoff:   time.Millisecond,
	})

	require.Error(t, err)
	require.NotNil(t, client)
	assert.Equal(t, StateFailed, client.State())
	assert.False(t, client.Ready())
	assert.Error(t, client.Ping(t.Context()))
}
