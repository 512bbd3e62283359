package api

import "fmt"

// NetworkErrorKind classifies transport-level failures of an API call.
type NetworkErrorKind int

const (
	// ConnectionFailed means the TCP or TLS connection could not be established.
	ConnectionFailed NetworkErrorKind = iota
	// NonSuccessStatus means the server answered with a non-2xx HTTP status.
	NonSuccessStatus
	// MalformedResponse means the response body could not be decoded.
	MalformedResponse
	// Timeout means the request did not complete within the client timeout.
	Timeout
)

// String returns a short lower-case label for the kind.
func (k NetworkErrorKind) String() string {
	switch k {
	case ConnectionFailed:
		return "connection failed"
	case NonSuccessStatus:
		return "non-success status"
	case MalformedResponse:
		return "malformed response"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// NetworkError wraps a failed HTTP exchange with the dedicated server API.
type NetworkError struct {
	Err  error
	Kind NetworkErrorKind
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error (%s): %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("network error (%s)", e.Kind)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthErrorKind classifies login failures.
type AuthErrorKind int

const (
	// WrongPassword means the server rejected the administrator password.
	WrongPassword AuthErrorKind = iota
	// UnexpectedAuthResponse means the login response had no recognizable
	// token and no known error code.
	UnexpectedAuthResponse
)

// AuthError is returned when PasswordLogin does not yield a usable token.
// Detail carries the raw response body for the unexpected case to aid
// diagnosis against unknown server versions.
type AuthError struct {
	Detail string
	Kind   AuthErrorKind
}

func (e *AuthError) Error() string {
	if e.Kind == WrongPassword {
		return "authentication failed: wrong password"
	}

	if e.Detail != "" {
		return fmt.Sprintf("unexpected authentication response: %s", e.Detail)
	}

	return "unexpected authentication response"
}

// APIError is an error envelope the server returned for a query call.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error %s: %s", e.Code, e.Message)
	}

	return fmt.Sprintf("server error %s", e.Code)
}
