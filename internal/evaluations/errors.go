package evaluations

import (
	"fmt"

	"github.com/JaimeStill/ecoscore/pkg/faults"
)

// Domain errors for evaluation operations.
var (
	ErrNotFound         = fmt.Errorf("evaluation %w", faults.ErrNotFound)
	ErrUnknownClassroom = faults.Validation("classroom_id", "classroom_id does not reference an existing classroom")
	ErrInvalidDate      = faults.Validation("evaluation_date", "evaluation_date must use the YYYY-MM-DD format")
	ErrFutureDate       = faults.Validation("evaluation_date", "evaluation_date must not be in the future")
)
