package cube

import "fmt"

// UpstreamError reports a non-2xx response from the Cube API. The call is
// terminal: there is no retry.
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("cube API returned %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("cube API returned %s", e.Status)
}
