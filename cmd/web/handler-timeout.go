package main

import (
	"net/http"
	"time"
)

const timeoutBody = `<!doctype html>
<html lang="en">
<head><title>Timeout</title></head>
<body>
<h1>The holonet is slow today</h1>
<p>The request took too long. <a href="">Try again</a>.</p>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func timeoutHandler(h http.Handler, requestTimeout time.Duration) http.Handler {
	// We want the timeout to be a little shorter than the server's write timeout so that the
	// timeout handler has a chance to respond before the server closes the connection.
	httpHandlerTimeout := requestTimeout - 500*time.Millisecond //nolint:mnd // 500ms
	if httpHandlerTimeout <= 0 {
		httpHandlerTimeout = requestTimeout
	}
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
