package dart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"finboard/internal"
)

const (
	StatusOK     = "000"
	StatusNoData = "013"
)

var ErrMissingAPIKey = errors.New("missing DART_API_KEY")

// TransportError is a failure to get a usable answer from the service at all:
// connection problems, non-2xx HTTP responses, unreadable bodies.
// It never carries a service status.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SourceError is a response from the service whose status is not "000".
type SourceError struct {
	Status   string
	Message  string
	Selector internal.Selector
	Hints    []string
}

func (e *SourceError) Error() string {
	msg := fmt.Sprintf("dart status %s: %s", e.Status, e.Message)
	if len(e.Hints) > 0 {
		msg += " (" + strings.Join(e.Hints, "; ") + ")"
	}
	return msg
}

// NoData reports whether the service said nothing is filed for the selector.
func (e *SourceError) NoData() bool { return e.Status == StatusNoData }

func IsNoData(err error) bool {
	var se *SourceError
	return errors.As(err, &se) && se.NoData()
}

// StatusOf returns the service status carried by err, or "" when there is none.
func StatusOf(err error) string {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Status
	}
	return ""
}

func newSourceError(status, message string, sel internal.Selector) *SourceError {
	if strings.TrimSpace(message) == "" {
		message = "unknown error"
	}
	se := &SourceError{Status: status, Message: message, Selector: sel}
	if status == StatusNoData {
		se.Hints = []string{
			fmt.Sprintf("statements for %d may not be filed", sel.Year),
			fmt.Sprintf("corp code %s may be wrong", sel.CorpCode),
			fmt.Sprintf("no %s (%s) may exist", sel.Period.Name(), sel.Period),
			"try " + strconv.Itoa(sel.Year-1) + " or " + strconv.Itoa(sel.Year-2) + ", or another report period",
		}
	}
	return se
}
