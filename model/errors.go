package model

import "errors"

var (
	ErrNotConnected      = errors.New("wallet is not connected")
	ErrListingNotFound   = errors.New("listing not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNoSelection       = errors.New("no NFT selected")
	ErrNetworkMismatch   = errors.New("wallet is connected to a different network")
	ErrActionInProgress  = errors.New("action already in progress")
	ErrTxFailed          = errors.New("transaction failed on chain (reverted)")
	ErrNotSeller         = errors.New("only the seller can accept offers")
	ErrUnsupportedAction = errors.New("unsupported listing action")
)
