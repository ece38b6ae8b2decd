package service

import "errors"

var (
	ErrNotFound             = errors.New("error not found")
	ErrAlreadyExists        = errors.New("error already exists")
	ErrUnknownSymbol        = errors.New("error symbol is not registered")
	ErrStockNotActive       = errors.New("error stock is not active")
	ErrInvalidAmount        = errors.New("error negative or zero amount")
	ErrInsufficientQuantity = errors.New("error sell exceeds held quantity")
	ErrLedgerInconsistency  = errors.New("error ledger contains an oversell")
)
