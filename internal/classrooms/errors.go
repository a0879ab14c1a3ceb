package classrooms

import (
	"fmt"

	"github.com/JaimeStill/ecoscore/pkg/faults"
)

// Domain errors for classroom lookups.
var (
	ErrNotFound        = fmt.Errorf("classroom %w", faults.ErrNotFound)
	ErrInvalidDivision = faults.Validation("division", "division must be one of Pre-School, Elementary, Middle School, High School, Technical Institute")
)

var errInvalidActive = faults.Validation("active", "active must be true or false")
