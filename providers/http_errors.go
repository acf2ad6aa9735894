package providers

import (
	stderrors "errors"
	"fmt"
	"net"
	"net/http"

	"agriassist.app/errors"
)

// classifyStatus maps a non-2xx upstream status to the internal taxonomy.
// The mapping is deterministic: 401 is always bad credentials, 429 is
// always throttling, anything else is an unreachable service.
func classifyStatus(service string, statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewUnauthorizedError(service)
	case http.StatusTooManyRequests:
		return errors.NewThrottledError(service)
	default:
		return errors.NewUnreachableError(service,
			fmt.Errorf("HTTP %d from upstream", statusCode))
	}
}

// classifyTransport maps a transport-level failure: a client timeout becomes
// Timeout, everything else (DNS, refused connection, reset) Unreachable.
func classifyTransport(service string, err error) error {
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewTimeoutError(service, err)
	}
	return errors.NewUnreachableError(service, err)
}
