package kernel

import "errors"

// ErrUnknownKernel is returned by Parse for unrecognized kernel names.
var ErrUnknownKernel = errors.New("kernel: unknown kernel name")
