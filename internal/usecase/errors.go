package usecase

import (
	"regexp"
	"strings"

	"awn-booking/pkg/apperror"

	"github.com/sirupsen/logrus"
)

var (
	ErrMissingFields      = apperror.New(apperror.KindValidation, "missing required fields")
	ErrInvalidEmail       = apperror.New(apperror.KindValidation, "invalid email format")
	ErrInvalidDateFormat  = apperror.New(apperror.KindValidation, "invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat  = apperror.New(apperror.KindValidation, "invalid time format, use HH:MM")
	ErrInvalidSessionType = apperror.New(apperror.KindValidation, "session_type must be one of online, home, clinic")
	ErrInvalidStatus      = apperror.New(apperror.KindValidation, "invalid status filter")
	ErrUnauthenticated    = apperror.New(apperror.KindUnauthorized, "authentication required")
	ErrForbidden          = apperror.New(apperror.KindForbidden, "you are not allowed to perform this action")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// missingFields wraps ErrMissingFields with the offending field names.
func missingFields(fields []string) error {
	return apperror.Wrap(apperror.KindValidation, "missing required fields: "+strings.Join(fields, ", "), ErrMissingFields)
}

// upstream logs an unclassified store failure and wraps it for transport.
func upstream(log *logrus.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.KindOf(err) == apperror.KindInternal {
		log.Warnf("Failed to %s: %+v", op, err)
	}
	return apperror.Upstream("failed to "+op, err)
}
