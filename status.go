package memauth

import "strconv"

// Status is the outcome code of a Service operation. The numeric values are part of
// the public contract.
type Status int

const (
	// StatusSuccess means the operation completed.
	StatusSuccess Status = 0
	// StatusInternalError means an unexpected failure was logged and contained.
	StatusInternalError Status = 10000
	// StatusUserExists means a user with that name already exists.
	StatusUserExists Status = 10001
	// StatusParamsError means a required argument was empty.
	StatusParamsError Status = 10002
	// StatusUserNotExist means the named user does not exist.
	StatusUserNotExist Status = 10003
	// StatusRoleExists means a role with that name already exists.
	StatusRoleExists Status = 10004
	// StatusRoleNotExist means the named role does not exist.
	StatusRoleNotExist Status = 10005
	// StatusWrongPassword means the secret did not match the stored digest.
	StatusWrongPassword Status = 10006
	// StatusInvalidToken means the token is unknown, or expired where the operation
	// does not distinguish expiry.
	StatusInvalidToken Status = 10007
	// StatusTokenExpired means the token exists but is past its lifetime.
	StatusTokenExpired Status = 10008
)

var statusErrors = map[Status]error{
	StatusInternalError: ErrInternal,
	StatusUserExists:    ErrUserExists,
	StatusParamsError:   ErrInvalidParams,
	StatusUserNotExist:  ErrUserNotFound,
	StatusRoleExists:    ErrRoleExists,
	StatusRoleNotExist:  ErrRoleNotFound,
	StatusWrongPassword: ErrWrongPassword,
	StatusInvalidToken:  ErrInvalidToken,
	StatusTokenExpired:  ErrTokenExpired,
}

// OK reports whether s is StatusSuccess.
func (s Status) OK() bool {
	return s == StatusSuccess
}

// Err returns the sentinel error for s, or nil for StatusSuccess.
func (s Status) Err() error {
	if s == StatusSuccess {
		return nil
	}
	if err, ok := statusErrors[s]; ok {
		return err
	}
	return ErrInternal
}

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	if err, ok := statusErrors[s]; ok {
		return err.Error()
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// Result carries a Status and, on success, a value.
type Result[T any] struct {
	Status Status
	value  T
}

func success[T any](v T) Result[T] {
	return Result[T]{Status: StatusSuccess, value: v}
}

func fail[T any](s Status) Result[T] {
	return Result[T]{Status: s}
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool {
	return r.Status.OK()
}

// Err returns the sentinel error for the status, or nil on success.
func (r Result[T]) Err() error {
	return r.Status.Err()
}

// Value returns the payload and true on success. On failure it returns the zero
// value and false.
func (r Result[T]) Value() (T, bool) {
	if !r.Status.OK() {
		var zero T
		return zero, false
	}
	return r.value, true
}
