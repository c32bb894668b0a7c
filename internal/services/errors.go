package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/clients/marketplace"
)

// Sentinel errors returned by the services layer. Handlers translate these
// into HTTP status codes exactly once, at the boundary.
var (
	// ErrInvalidInput marks a request the caller can fix.
	ErrInvalidInput = errors.New("services: invalid input")
	// ErrNotFound marks a reference to a record the marketplace does not have.
	ErrNotFound = errors.New("services: not found")
	// ErrConflict marks an operation rejected by the current workflow state.
	ErrConflict = errors.New("services: conflict")
	// ErrUnavailable marks a transient upstream failure worth retrying.
	ErrUnavailable = errors.New("services: upstream unavailable")
)

// translateClientError folds marketplace client failures into the services
// error taxonomy. Context cancellation passes through untouched.
func translateClientError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *marketplace.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
		case apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %s", ErrInvalidInput, apiErr.Message)
		case apiErr.StatusCode == http.StatusConflict:
			return fmt.Errorf("%w: %s", ErrConflict, apiErr.Message)
		case apiErr.Transient():
			return fmt.Errorf("%w: %s", ErrUnavailable, apiErr.Message)
		}
		return err
	}
	// Anything else is a transport fault: connection refused, timeout, bad
	// response body. All of those are retryable from the operator's seat.
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
