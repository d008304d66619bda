package model

import "github.com/rotisserie/eris"

// Error kinds. Every one of them aborts the current run; callers match with
// eris.Is after the error has been wrapped with context.
var (
	// ErrDataIntegrity marks a duplicate or missing observation, or a
	// duplicate entry in the state identifier table.
	ErrDataIntegrity = eris.New("data integrity")

	// ErrLookup marks a state name or code absent from the identifier table.
	ErrLookup = eris.New("lookup")

	// ErrArithmetic marks a division by a zero total or population.
	ErrArithmetic = eris.New("division by zero")
)
