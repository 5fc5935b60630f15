package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/invisible-transfer/invisible-daemon/internal/core/application"
	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

const maxBodySize = 1 << 16

var (
	errInvalidBody  = errors.New("invalid request body")
	errInvalidQuery = errors.New("invalid query parameter")
)

var (
	badRequestErrors = []error{
		errInvalidBody,
		errInvalidQuery,
		domain.ErrInvalidAddress,
		domain.ErrInvalidAmount,
		domain.ErrInvalidToken,
		domain.ErrCommitmentAlreadyClaimed,
		domain.ErrCommitmentAlreadyCancelled,
		domain.ErrCommitmentNotPending,
		application.ErrUnsupportedPair,
		application.ErrInvalidDecimals,
		application.ErrMissingToken,
	}
	notFoundErrors = []error{
		domain.ErrCommitmentNotFound,
	}
	forbiddenErrors = []error{
		domain.ErrNotRecipient,
		domain.ErrNotSender,
	}
	unavailableErrors = []error{
		application.ErrQuoterUnavailable,
	}
)

// httpStatus maps an application error to the response status code and the
// message returned to the client. Unknown errors are never echoed.
func httpStatus(err error) (int, string) {
	switch {
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest, err.Error()
	case isAny(err, notFoundErrors):
		return http.StatusNotFound, err.Error()
	case isAny(err, forbiddenErrors):
		return http.StatusForbidden, err.Error()
	case isAny(err, unavailableErrors):
		return http.StatusServiceUnavailable, application.ErrQuoterUnavailable.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := httpStatus(err)
	if code >= http.StatusInternalServerError {
		log.WithError(err).WithField("request_id", requestID(r.Context())).
			Errorf("%s %s failed", r.Method, r.URL.Path)
	} else {
		log.WithError(err).Debugf("%s %s rejected", r.Method, r.URL.Path)
	}
	writeJSON(w, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}
