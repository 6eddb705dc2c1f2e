package catalog

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when a snapshot has no concepts or no root categories.
// It is a configuration fault and must stop the process at startup.
var ErrEmpty = errors.New("catalog is empty")

// DuplicateIDError indicates two entries of the same kind share an id.
type DuplicateIDError struct {
	Kind string
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id: %s", e.Kind, e.ID)
}

// MissingCatchAllError indicates the root categories lack the miscellaneous bucket.
type MissingCatchAllError struct {
	ID string
}

func (e *MissingCatchAllError) Error() string {
	return fmt.Sprintf("root category %q is required as catch-all", e.ID)
}
