package wava

import (
	"errors"

	"github.com/okian/agegrade/internal/domain/standards"
)

// Sentinel errors.
var (
	ErrReadSource    = errors.New("read standards source")
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidTable  = standards.ErrInvalidTable
)
