package api

import "fmt"

// FetchError reports a failed CDX request for one domain. Cause is the network,
// HTTP status or JSON decoding failure.
type FetchError struct {
	Domain string
	Cause  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Domain, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
