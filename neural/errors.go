package neural

import "errors"

// Errors returned by brain operations. They are wrapped with context, so
// callers should compare with errors.Is.
var (
	ErrInvalidFromTo = errors.New("synapse from and to are the same neuron")
	ErrSynapse       = errors.New("synapse not allowed")
	ErrOutOfBounds   = errors.New("index out of bounds")
	ErrNeuron        = errors.New("cannot split an inactive synapse")
	ErrNeuronRemoval = errors.New("only hidden neurons can be removed")
	ErrInputArray    = errors.New("input length does not match brain inputs")
	ErrInvalidBrain  = errors.New("invalid brain")
)
