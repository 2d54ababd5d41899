package nutrition

import "errors"

// Construction errors for nutritional value objects

var (
	ErrMacroSumInvalid = errors.New("macro percentages must sum to exactly 100")
	ErrMacroOutOfRange = errors.New("macro percentage must be between 0 and 100")
	ErrCaloriesTooLow  = errors.New("calories below realistic single-meal minimum of 50 kcal")
	ErrCaloriesTooHigh = errors.New("calories above realistic single-meal maximum of 5000 kcal")
	ErrNegativeGrams   = errors.New("nutrient amounts cannot be negative")
)
