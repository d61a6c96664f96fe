package internal

// Zero returns the zero value of T.
func Zero[T any]() (v T) { return }
