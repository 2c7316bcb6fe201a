package decoder

import (
	"fmt"

	"github.com/mikee47/datalog/errs"
)

func missingSequenceError(sequence uint32) error {
	return fmt.Errorf("decoder: sequence %d: %w", sequence, errs.ErrMissingSequence)
}
