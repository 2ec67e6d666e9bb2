// Package options implements the generic functional option pattern shared by
// the encoder and batch writer configurations.
package options

// Option configures a target of type T.
type Option[T any] interface {
	apply(T) error
}

// Validator is implemented by configurations that check their final state
// once every option has been applied.
type Validator interface {
	Validate() error
}

// Func is an Option backed by a function.
type Func[T any] struct {
	applyFunc func(T) error
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates an option from a function that may reject its argument.
func New[T any](fn func(T) error) *Func[T] {
	return &Func[T]{applyFunc: fn}
}

// NoError creates an option from a setter that cannot fail.
func NoError[T any](fn func(T)) *Func[T] {
	return &Func[T]{
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts to target in order and stops at the first error.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// ApplyAndValidate applies opts and then validates the resulting target.
// Validation runs only when every option applied cleanly, so cross-field
// checks see the final configuration rather than an intermediate one.
func ApplyAndValidate[T Validator](target T, opts ...Option[T]) error {
	if err := Apply(target, opts...); err != nil {
		return err
	}

	return target.Validate()
}
