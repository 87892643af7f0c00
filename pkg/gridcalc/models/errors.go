package models

import "errors"

// ErrAddressOutOfRange indicates an address outside the grid.
var ErrAddressOutOfRange = errors.New("address out of range")

// ErrInvalidOptions indicates options that fail validation.
var ErrInvalidOptions = errors.New("invalid options")
