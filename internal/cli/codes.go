package cli

// Error codes for CLI responses.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Invalid configuration
	ErrCodeSchema       = "E003" // Schema load failed
	ErrCodeQuery        = "E004" // Query document unreadable or invalid
	ErrCodeRender       = "E005" // SQL rendering failed
	ErrCodeDatabase     = "E006" // Database open or execution failed
	ErrCodeNotFound     = "E007" // Path not found
	ErrCodeTestFailed   = "E101" // One or more scenarios failed
	ErrCodeSchemaFields = "E102" // Schema definition error
)
