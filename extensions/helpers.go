package extensions

import "time"

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// FilterMultiple return all elements that satisfy the predicate
func FilterMultiple[T any](elements []T, predicate func(T) bool) (results []T) {
	for _, element := range elements {
		if predicate(element) {
			results = append(results, element)
		}
	}
	return
}

// FilterMultiplePtr return all pointers that satisfy the predicate
func FilterMultiplePtr[T any](elements []*T, predicate func(*T) bool) (results []*T) {
	for _, element := range elements {
		if predicate(element) {
			results = append(results, element)
		}
	}
	return
}

func Max[T Number](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// FmtLong formats a time to a full date string, keeping sub-second
// precision so stored timestamps never tie within one second
func FmtLong(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// FmtReadable formats a time the way the history table displays it
func FmtReadable(t time.Time) string {
	return t.Format(time.DateTime)
}
