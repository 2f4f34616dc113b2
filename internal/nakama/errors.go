package nakama

import "errors"

// ErrRateLimited is returned before any network call when the client's
// limiter rejects the operation.
var ErrRateLimited = errors.New("rate limit exceeded, please try again later")

// Kind classifies why a remote call failed.
type Kind int

const (
	// KindResponse: the API answered with a non-2xx status or an unusable body.
	KindResponse Kind = iota + 1
	// KindNoResponse: the request was sent but no response arrived (network, timeout).
	KindNoResponse
	// KindSetup: the request could not be built.
	KindSetup
)

func (k Kind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindNoResponse:
		return "no_response"
	case KindSetup:
		return "setup"
	default:
		return "unknown"
	}
}

// APIError is a classified remote failure. Error returns the user-facing
// message for its Kind; the transport cause is kept in Err.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindResponse:
		msg := e.Message
		if msg == "" {
			msg = "unknown error"
		}
		return "api error: " + msg
	case KindNoResponse:
		return "no response received from the api, please check your network connection"
	default:
		return "error in setting up the api request, please try again"
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// FetchError is the normalized failure of a catalog or recent fetch. Its
// message names the operation only; use errors.As to reach the *APIError.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return "unable to " + e.Op }

func (e *FetchError) Unwrap() error { return e.Err }

func apiErr(kind Kind, status int, msg string, err error) *APIError {
	return &APIError{Kind: kind, Status: status, Message: msg, Err: err}
}
