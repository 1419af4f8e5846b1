package service

import "errors"

// Sentinel errors.
var (
	ErrNoEvaluator   = errors.New("service has no evaluator")
	ErrNoDateOfBirth = errors.New("no date of birth")
	ErrEnqueue       = errors.New("enqueue grading job")
)
