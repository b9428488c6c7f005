package util

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrQuizAlreadyCompleted = errors.New("quiz already completed")
	ErrNoCurrentQuestion    = errors.New("no current question")
	ErrUnsupportedCategory  = errors.New("unsupported category")
)
