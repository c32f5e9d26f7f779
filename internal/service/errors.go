package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrJobNotFound struct {
	error
}

func NewErrJobNotFound(id uuid.UUID) *ErrJobNotFound {
	return &ErrJobNotFound{fmt.Errorf("job %s not found", id)}
}

type ErrJobNotCompleted struct {
	error
}

func NewErrJobNotCompleted(id uuid.UUID) *ErrJobNotCompleted {
	return &ErrJobNotCompleted{fmt.Errorf("job %s is not completed yet", id)}
}

type ErrInvalidURL struct {
	error
}

func NewErrInvalidURL(url string) *ErrInvalidURL {
	return &ErrInvalidURL{fmt.Errorf("not a valid youtube video or channel url: %s", url)}
}
