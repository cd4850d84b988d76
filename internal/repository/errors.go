package repository

import "errors"

// ErrStockInsuficiente is returned by DescontarStockTx when the product
// exists but does not have enough stock for the requested quantity. The
// issuance transaction rolls back on it.
var ErrStockInsuficiente = errors.New("stock insuficiente")
