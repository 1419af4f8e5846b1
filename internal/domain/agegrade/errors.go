package agegrade

import (
	"errors"

	"github.com/okian/agegrade/internal/domain/model"
	"github.com/okian/agegrade/internal/domain/standards"
)

// Error kinds. All but ErrMissingAgeFactor are fatal and returned as the
// error of the call; ErrMissingAgeFactor only ever appears in warnings.
var (
	ErrInvalidTable     = standards.ErrInvalidTable
	ErrInvalidGender    = model.ErrInvalidGender
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingAgeFactor = errors.New("missing age factor")
)
