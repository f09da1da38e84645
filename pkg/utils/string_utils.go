package utils

// NewNullString returns a pointer to s, or nil when s is empty. Optional
// text columns (movement reasons, address labels) store NULL for empty input.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
