package pipeline

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/serviceatlas/catalog-cli/internal/fetcher"
	"github.com/serviceatlas/catalog-cli/internal/model"
)

// networkPatterns are string heuristics for connection-level failures
// wrapped by HTTP clients beyond recognition.
var networkPatterns = []string{
	"connection reset by peer",
	"connection refused",
	"broken pipe",
	"no such host",
	"temporary failure in name resolution",
	"transport connection broken",
}

// transientPatterns indicate timeouts that are safe to retry on the
// next scheduled run.
var transientPatterns = []string{
	"i/o timeout",
	"tls handshake timeout",
	"context deadline exceeded",
	"timeout awaiting response",
}

// ClassifyExtractError maps an adapter extraction failure onto the
// error taxonomy: auth failures need human attention, transient and
// network errors resolve themselves on the next run, parse errors point
// at a format change upstream.
func ClassifyExtractError(err error) model.ErrorCategory {
	if err == nil {
		return model.ErrUnknown
	}

	var statusErr *fetcher.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return model.ErrAuth
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return model.ErrTransient
		default:
			return model.ErrHTTP
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.ErrTransient
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return model.ErrNetwork
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return model.ErrParse
	}

	msg := strings.ToLower(err.Error())
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return model.ErrTransient
		}
	}
	for _, p := range networkPatterns {
		if strings.Contains(msg, p) {
			return model.ErrNetwork
		}
	}
	for _, p := range []string{"parse", "unmarshal", "yaml:", "invalid character", "unexpected end of"} {
		if strings.Contains(msg, p) {
			return model.ErrParse
		}
	}

	return model.ErrUnknown
}
