// Package drop defines how primitives destroy a payload they own when nobody
// will ever read it again.
package drop

// Dropper is implemented by payloads that hold resources that must be released
// when the owning primitive discards them (a file, a pooled buffer, a count).
type Dropper interface {
	Drop()
}

// Func destroys a value of type T.
type Func[T any] func(v T)

// Run destroys v. If fn is set it is used, otherwise if v implements Dropper
// its Drop method is called. Values that are neither are left to the garbage
// collector.
func Run[T any](v T, fn Func[T]) {
	if fn != nil {
		fn(v)
		return
	}
	if d, ok := any(v).(Dropper); ok {
		d.Drop()
	}
}
