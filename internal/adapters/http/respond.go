package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"komunitas/internal/application/forms"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/domain/account"
	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/cashflow"
	"komunitas/internal/domain/donation"
	"komunitas/internal/domain/review"
	"komunitas/internal/domain/submission"
	"komunitas/internal/domain/volunteer"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// errBadJSON marks a body that is not valid JSON for the target type.
var errBadJSON = errors.New("invalid JSON body")

var notFoundErrors = []error{
	activity.ErrNotFound,
	cashflow.ErrNotFound,
	donation.ErrNotFound,
	volunteer.ErrNotFound,
	submission.ErrNotFound,
	forms.ErrNotFound,
	orchestrators.ErrAccountNotFound,
}

var conflictErrors = []error{
	review.ErrAlreadyResolved,
	forms.ErrReadOnly,
	forms.ErrClosed,
	forms.ErrSubmitting,
	orchestrators.ErrEmailAlreadyExists,
}

var validationErrors = []error{
	errBadJSON,
	review.ErrInvalidStatus,
	forms.ErrInvalidEntity, forms.ErrInvalidMode, forms.ErrMissingTarget, forms.ErrNoLocationField,

	activity.ErrEmptyTitle, activity.ErrTitleTooLong, activity.ErrDescriptionTooLong,
	activity.ErrLocationTooLong, activity.ErrInvalidStatus, activity.ErrNegativeParticipants,
	activity.ErrInvalidDate,

	cashflow.ErrEmptyTitle, cashflow.ErrTitleTooLong, cashflow.ErrDescriptionTooLong,
	cashflow.ErrCategoryTooLong, cashflow.ErrInvalidType, cashflow.ErrNegativeAmount,
	cashflow.ErrInvalidDate,

	donation.ErrEmptyName, donation.ErrNameTooLong, donation.ErrInvalidEmail, donation.ErrEmailTooLong,
	donation.ErrPhoneTooLong, donation.ErrMessageTooLong, donation.ErrNegativeAmount,

	volunteer.ErrEmptyName, volunteer.ErrNameTooLong, volunteer.ErrInvalidEmail, volunteer.ErrEmailTooLong,
	volunteer.ErrPhoneTooLong, volunteer.ErrMotivationTooLong, volunteer.ErrTooManySkills,
	volunteer.ErrSkillTooLong,

	submission.ErrEmptyTitle, submission.ErrEmptySubmitter, submission.ErrInvalidKind,
	submission.ErrNegativeAmount, submission.ErrInvalidCashType,

	account.ErrInvalidEmail, account.ErrEmptyEmail, account.ErrEmailTooLong, account.ErrInvalidRole,
	account.ErrEmptyPassword, account.ErrPasswordTooShort,
	orchestrators.ErrCurrentPasswordWrong, orchestrators.ErrNewPasswordSame,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps a handler error to its HTTP status.
func statusFor(err error) int {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case isAny(err, validationErrors), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return http.StatusBadRequest
	case errors.Is(err, forms.ErrTooManyForms):
		return http.StatusServiceUnavailable
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, orchestrators.ErrAccountLocked):
		return http.StatusLocked
	}
	return http.StatusInternalServerError
}

// writeError answers with the status for err. Unrecognised errors become a generic 500.
func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		internalError(w, err)
		return
	}
	http.Error(w, err.Error(), code)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

// readBody reads a capped request body.
func readBody(r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Join(errBadJSON, err)
	}
	return b, nil
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadJSON, err)
	}
	return nil
}

// decodeDraft strictly decodes a draft after coercing numeric fields, so
// "amount": "abc" lands as 0 instead of failing the request.
func decodeDraft(r *http.Request, v any, numericKeys ...string) error {
	raw, err := readBody(r)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return errors.Join(errBadJSON, err)
	}
	forms.CoerceNumbers(fields, numericKeys...)
	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadJSON, err)
	}
	return nil
}
