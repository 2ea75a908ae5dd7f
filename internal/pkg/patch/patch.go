package patch

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise returns fallback
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// CoalescePtr returns ptr when set, otherwise fallback. Used for optional fields
// that stay optional after the patch is applied.
func CoalescePtr[T any](ptr *T, fallback *T) *T {
	if ptr != nil {
		return ptr
	}
	return fallback
}
