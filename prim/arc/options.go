package arc

import (
	"fmt"

	"github.com/johnsiilver/calloptions"
)

type arcOptions struct {
	// drop holds a func(T). It is checked against the payload type in New().
	drop any
}

// Option is an option for New().
type Option interface {
	arc()
}

// WithDrop sets the function that destroys the payload when the last handle is
// released. It takes precedence over the payload's own Drop() method. This can be used as a:
// - Option
func WithDrop[T any](f func(v T)) interface {
	Option
	calloptions.CallOption
} {
	return struct {
		Option
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				switch t := a.(type) {
				case *arcOptions:
					if f == nil {
						return fmt.Errorf("WithDrop() cannot be passed a nil func")
					}
					t.drop = f
					return nil
				}
				return fmt.Errorf("WithDrop can only be used with Option")
			},
		),
	}
}
