package httpclient_test

import (
	"testing"
	"time"

	"forum-companion/internal/infra/httpclient"

	"github.com/stretchr/testify/assert"
)

func TestNewPooledClient_SharesTransport(t *testing.T) {
	a := httpclient.NewPooledClient(10 * time.Second)
	b := httpclient.NewPooledClient(30 * time.Second)

	assert.Same(t, a.Transport, b.Transport)
	assert.Equal(t, 10*time.Second, a.Timeout)
	assert.Equal(t, 30*time.Second, b.Timeout)
}
