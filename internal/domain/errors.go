package domain

import "errors"

var (
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned on registration with a duplicate username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both unknown user and wrong password,
	// so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrQuestionNotFound indicates a question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidQuestion is returned for a question failing validation.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrResultNotFound is returned when a result does not exist or is not
	// owned by the requesting user.
	ErrResultNotFound = errors.New("result not found")
	// ErrTokenNotFound indicates an unknown API token key.
	ErrTokenNotFound = errors.New("token not found")
	// ErrSessionNotFound indicates an expired or unknown web session.
	ErrSessionNotFound = errors.New("session not found")
)
