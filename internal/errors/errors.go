// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
    "strings"
)

// ErrRecordNotFound is returned when an id cannot be resolved directly
// and no correlation key resolves it uniquely. ShouldRefresh tells the
// caller its whole cached id set may be invalid and must be refetched.
type ErrRecordNotFound struct {
    Entity        string
    ID            int
    ShouldRefresh bool
}

func (e *ErrRecordNotFound) Error() string {
    return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

// Helper constructor
func NewRecordNotFound(entity string, id int) error {
    return &ErrRecordNotFound{Entity: entity, ID: id, ShouldRefresh: true}
}

func AsRecordNotFound(err error) (*ErrRecordNotFound, bool) {
    var nf *ErrRecordNotFound
    if errors.As(err, &nf) {
        return nf, true
    }
    return nil, false
}

// ValidationError reports missing mandatory identity fields. It is
// raised before any dedup or sync logic runs.
type ValidationError struct {
    Fields []string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("missing mandatory fields: %s", strings.Join(e.Fields, ", "))
}

func NewValidation(fields ...string) error {
    return &ValidationError{Fields: fields}
}

func AsValidation(err error) (*ValidationError, bool) {
    var ve *ValidationError
    if errors.As(err, &ve) {
        return ve, true
    }
    return nil, false
}
