package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure of the pipeline wraps exactly one of these,
// so callers can tell a bad modulus from a bad order with errors.Is.
var (
	ErrNotPrime         = errors.New("modulus is not prime")
	ErrOrderNotDivisor  = errors.New("order does not divide modulus-1")
	ErrNoGeneratorFound = errors.New("no primitive root found")
	ErrOrderMismatch    = errors.New("root of unity has the wrong order")
	ErrBackendMismatch  = errors.New("field backend disagrees with the power table")
)

// ConfigError reports invalid configuration: a composite modulus, an
// order that does not divide p-1 or a strict backend that cannot handle
// the modulus.
type ConfigError struct {
	Kind   error
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("domain: config: %v: %s", e.Kind, e.Detail)
}

func (e *ConfigError) Unwrap() error { return e.Kind }

// ComputationError reports a failed primitive-root search. Cause carries
// the underlying numtheory error, if any.
type ComputationError struct {
	Kind  error
	Cause error
}

func (e *ComputationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("domain: computation: %v", e.Kind)
	}
	return fmt.Sprintf("domain: computation: %v: %v", e.Kind, e.Cause)
}

func (e *ComputationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// VerificationError reports a root of unity whose order is not the
// requested one, or a power table that failed a backend cross-check.
type VerificationError struct {
	Kind   error
	Detail string
	Cause  error
}

func (e *VerificationError) Error() string {
	msg := fmt.Sprintf("domain: verification: %v: %s", e.Kind, e.Detail)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *VerificationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
