package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrAccountExists      = fmt.Errorf("an account with this email already exists")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")

	// Persistence errors
	ErrStorage     = fmt.Errorf("storage failure")
	ErrCorruptData = fmt.Errorf("stored data is malformed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrCocktailNotFound   = fmt.Errorf("cocktail not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
