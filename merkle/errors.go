package merkle

import "errors"

// ErrNoLeaves indicates a root was requested for an empty batch.
var ErrNoLeaves = errors.New("merkle: no leaves")
