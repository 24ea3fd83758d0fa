package cart

import "errors"

var (
	ErrUnauthenticated = errors.New("checkout requires an authenticated session")
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
)
