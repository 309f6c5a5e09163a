package common

// FilterEmpty drops zero values, e.g. blank entries from a comma separated
// config list.
func FilterEmpty[T comparable](items ...T) []T {
	result := make([]T, 0, len(items))
	var zero T
	for _, item := range items {
		if item != zero {
			result = append(result, item)
		}
	}
	return result
}
