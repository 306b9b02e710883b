package memauth

import "errors"

var (
	// ErrInternal is reported for StatusInternalError.
	ErrInternal = errors.New("internal error")
	// ErrUserExists is reported for StatusUserExists.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidParams is reported for StatusParamsError.
	ErrInvalidParams = errors.New("invalid parameters")
	// ErrUserNotFound is reported for StatusUserNotExist.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleExists is reported for StatusRoleExists.
	ErrRoleExists = errors.New("role already exists")
	// ErrRoleNotFound is reported for StatusRoleNotExist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrWrongPassword is reported for StatusWrongPassword.
	ErrWrongPassword = errors.New("wrong password")
	// ErrInvalidToken is reported for StatusInvalidToken.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is reported for StatusTokenExpired.
	ErrTokenExpired = errors.New("token expired")
	// ErrBuilderUsed is returned by Builder.Build on a second call.
	ErrBuilderUsed = errors.New("builder already used")
)
