// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openfoodfacts

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the database has no product for a barcode.
var ErrNotFound = errors.New("product not found")

// TransportError wraps a failed exchange with the food database: a network
// failure, a non-2xx status or an undecodable body. Status is 0 when no
// response was received.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("openfoodfacts %s: HTTP %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("openfoodfacts %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
