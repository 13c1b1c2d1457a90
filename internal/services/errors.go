// Package services defines the business logic for authentication, risk
// assessments, constitutional-type prediction, and progress tracking.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Authentication errors.
var (
	// ErrEmailTaken is returned when registration is attempted with an email
	// that already belongs to an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for a failed login. The same error is
	// used for unknown email and wrong password so callers cannot distinguish
	// the two cases.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword is returned when a registration password does not meet
	// the minimum length requirement.
	ErrWeakPassword = errors.New("password too short")

	// ErrTokenInvalid is returned when a JWT fails parsing, signature
	// verification, or expiry checks.
	ErrTokenInvalid = errors.New("invalid or expired token")

	// ErrUserNotFound indicates that the account referenced by a valid token
	// no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// Assessment errors.
var (
	// ErrAssessmentNotFound indicates that the requested assessment does not
	// exist or is not accessible to the current user.
	ErrAssessmentNotFound = errors.New("assessment not found")

	// ErrInvalidInput is returned when a questionnaire payload fails
	// field-level validation (unknown enum value, out-of-range vital).
	ErrInvalidInput = errors.New("invalid questionnaire input")
)

// Classifier errors.
var (
	// ErrModelUnavailable is returned when the constitutional-type classifier
	// artifacts could not be loaded and prediction is requested.
	ErrModelUnavailable = errors.New("prakriti model unavailable")
)
