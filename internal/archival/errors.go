package archival

import (
	"fmt"

	"github.com/JaimeStill/ecoscore/pkg/faults"
)

// ErrRunRecorded is returned when the ledger already holds a run for the month.
var ErrRunRecorded = fmt.Errorf("archive run %w", faults.ErrConflict)
