package httpclient

import (
	"net/http"
	"time"
)

// The assistant talks to exactly one model endpoint, so the pool is
// sized for a single host: a handful of warm connections, capped so a
// burst of questions cannot flood the model server with new sockets.
// Generation responses arrive in one shot after a long server-side
// think, so idle connections are kept around well past a typical
// generation to survive quiet periods between questions.
const (
	maxIdleConns    = 4
	maxConnsPerHost = 8
	idleConnTimeout = 5 * time.Minute
)

var sharedTransport = &http.Transport{
	MaxIdleConns:        maxIdleConns,
	MaxIdleConnsPerHost: maxIdleConns,
	MaxConnsPerHost:     maxConnsPerHost,
	IdleConnTimeout:     idleConnTimeout,
	ForceAttemptHTTP2:   true,
}

// NewPooledClient creates an http.Client backed by the shared
// model-endpoint connection pool. The timeout bounds the whole
// request, generation time included.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: sharedTransport,
	}
}
