package errs

import (
	"fmt"
	"net/http"
	"strings"

	"relaychat/internal/pkg/logx"
)

// CustomError carries a business code, a client-facing message and the HTTP status
// used when it is returned from a handler.
type CustomError struct {
	Code    int
	Message string
	Status  int
}

func (e CustomError) Error() string {
	return fmt.Sprintf("error %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError builds the CustomError registered for code.
//
// For ErrUnknown the first detail may be the underlying error, which is logged and never
// shown to the client. For other codes, details fill printf verbs in the message template.
// Unregistered codes fall back to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	tmpl, ok := errorMap[code]
	if !ok {
		logx.Warn("unknown error code requested", "requested_code", code)
		tmpl = errorMap[ErrUnknown]
	}

	e := tmpl
	if e.Status == 0 {
		e.Status = http.StatusBadRequest
	}

	if len(details) == 0 {
		return &e
	}

	if e.Code == ErrUnknown {
		if cause, ok := details[0].(error); ok {
			logx.Error(cause, "unknown error with underlying cause")
		}
		return &e
	}

	if strings.Contains(e.Message, "%") {
		e.Message = fmt.Sprintf(e.Message, details...)
	}

	return &e
}
