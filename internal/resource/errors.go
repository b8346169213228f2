package resource

import (
	"errors"
	"fmt"
)

// Reason is the machine readable failure code of a ContractError.
type Reason string

const (
	ReasonIdentityAlreadyAssigned Reason = "idexists"
	ReasonMissingIdentity         Reason = "idnull"
	ReasonIdentityMismatch        Reason = "idinvalid"
	ReasonNotFound                Reason = "idnotfound"
	ReasonFieldRequired           Reason = "fieldrequired"
)

var (
	ErrIdentityAlreadyAssigned = errors.New("a new record cannot already have an id")
	ErrMissingIdentity         = errors.New("invalid id")
	ErrIdentityMismatch        = errors.New("id does not match the request path")
	ErrNotFound                = errors.New("entity not found")
	ErrFieldRequired           = errors.New("field must not be null")

	// ErrNoRecord is returned by reads that find nothing. It is not a contract violation.
	ErrNoRecord = errors.New("record not found")
	// ErrInvalidSort is returned by stores for sort properties they cannot resolve.
	ErrInvalidSort = errors.New("invalid sort property")
)

var reasonErrors = map[Reason]error{
	ReasonIdentityAlreadyAssigned: ErrIdentityAlreadyAssigned,
	ReasonMissingIdentity:         ErrMissingIdentity,
	ReasonIdentityMismatch:        ErrIdentityMismatch,
	ReasonNotFound:                ErrNotFound,
	ReasonFieldRequired:           ErrFieldRequired,
}

// ContractError is a client error raised before the store is mutated.
type ContractError struct {
	Entity string
	Reason Reason
	// Field is set for ReasonFieldRequired.
	Field string
}

func (e *ContractError) Error() string {
	base := reasonErrors[e.Reason]
	msg := string(e.Reason)
	if base != nil {
		msg = base.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s %s", e.Entity, e.Field, msg)
	}
	return fmt.Sprintf("%s: %s", e.Entity, msg)
}

func (e *ContractError) Is(target error) bool {
	return target != nil && reasonErrors[e.Reason] == target
}

func contractErr(entity string, reason Reason) error {
	return &ContractError{Entity: entity, Reason: reason}
}

// StorageFault wraps any failure of the storage collaborator. It is never retried.
type StorageFault struct {
	Entity string
	Op     string
	Err    error
}

func (e *StorageFault) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Entity, e.Op, e.Err)
}

func (e *StorageFault) Unwrap() error { return e.Err }

// AsContractError extracts a *ContractError from err.
func AsContractError(err error) (*ContractError, bool) {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsStorageFault reports whether err came from the storage collaborator.
func IsStorageFault(err error) bool {
	var sf *StorageFault
	return errors.As(err, &sf)
}
