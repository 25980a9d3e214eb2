package pricing

import "errors"

var (
	// ErrUnknownQuestion is returned when the question id is not in the catalog
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrUnknownOption is returned when the option id does not belong to the question
	ErrUnknownOption = errors.New("unknown option for question")

	// ErrUnknownMultiplier is returned when the multiplier id does not belong to the question
	ErrUnknownMultiplier = errors.New("unknown multiplier for question")

	// ErrMultiplierRequired is returned when committing an answer for a
	// question that requires a multiplier without selecting one
	ErrMultiplierRequired = errors.New("multiplier selection required")
)
