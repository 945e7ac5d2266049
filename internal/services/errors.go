package services

import (
	"errors"

	"gorm.io/gorm"
)

// Kind groups errors by how they are reported to API callers.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

var (
	ErrEmailTaken         = errors.New("user with this email or student ID already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfDelete         = errors.New("cannot delete your own account")
	ErrInvalidRole        = errors.New("invalid role")

	ErrComplaintNotFound  = errors.New("complaint not found")
	ErrNotOwner           = errors.New("access denied")
	ErrMissingFields      = errors.New("title and description are required")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidUrgency     = errors.New("invalid urgency")
	ErrInvalidWorker      = errors.New("invalid worker ID")
	ErrWorkerRequired     = errors.New("new worker ID is required")
	ErrNoteRequired       = errors.New("note is required")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrFeedbackNotAllowed = errors.New("feedback can only be submitted for resolved or closed complaints")

	ErrDuplicate        = errors.New("resource already exists")
	ErrInvalidReference = errors.New("invalid reference")
)

var kinds = map[error]Kind{
	ErrEmailTaken:          KindConflict,
	ErrInvalidCredentials:  KindUnauthorized,
	ErrTokenInvalid:        KindUnauthorized,
	ErrTokenExpired:        KindUnauthorized,
	ErrTokenRevoked:        KindUnauthorized,
	ErrUserNotFound:        KindNotFound,
	ErrSelfDelete:          KindValidation,
	ErrInvalidRole:         KindValidation,
	ErrComplaintNotFound:   KindNotFound,
	ErrNotOwner:            KindForbidden,
	ErrMissingFields:       KindValidation,
	ErrInvalidStatus:       KindValidation,
	ErrInvalidUrgency:      KindValidation,
	ErrInvalidWorker:       KindValidation,
	ErrWorkerRequired:      KindValidation,
	ErrNoteRequired:        KindValidation,
	ErrInvalidRating:       KindValidation,
	ErrFeedbackNotAllowed:  KindValidation,
	ErrDuplicate:           KindConflict,
	ErrInvalidReference:    KindValidation,
	gorm.ErrRecordNotFound: KindNotFound,
}

// Sentinel returns the service error that err wraps, with store errors translated first.
// It returns nil when err matches none, so wrap prefixes never reach callers.
func Sentinel(err error) error {
	if err == nil {
		return nil
	}
	err = translate(err)
	for sentinel := range kinds {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	if sentinel := Sentinel(err); sentinel != nil {
		return kinds[sentinel]
	}
	return KindInternal
}

// translate maps store errors that callers can act on to service errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidReference
	}
	return err
}

func notFoundAs(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
