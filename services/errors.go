package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrCapacityExceeded  = errors.New("not enough seats")
	ErrInvalidItem       = errors.New("invalid menu item")
	ErrForbidden         = errors.New("not authorized")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTransactionFailed = errors.New("transaction failed")
)

// ConflictError names the tables that already hold a confirmed booking
// overlapping the requested window.
type ConflictError struct {
	TableIDs []uint
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.TableIDs))
	for i, id := range e.TableIDs {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}
	return fmt.Sprintf("table(s) already booked: %s", strings.Join(ids, ", "))
}
