package winners

import (
	"fmt"

	"github.com/JaimeStill/ecoscore/pkg/faults"
)

// Domain errors for winner operations.
var (
	ErrNotFound         = fmt.Errorf("monthly winner %w", faults.ErrNotFound)
	ErrUnknownClassroom = faults.Validation("classroom_id", "classroom_id does not reference an existing classroom")
)
