package domain

import "errors"

// Service error types

var (
	// ErrConnect indicates the listener could not bind or accept
	ErrConnect = errors.New("connect error")

	// ErrProtocol indicates the client did not deliver a message line
	ErrProtocol = errors.New("protocol error")

	// ErrStoreIO indicates an append or read against the log store failed
	ErrStoreIO = errors.New("store io error")

	// ErrStoreClosed indicates the log store was used after Close
	ErrStoreClosed = errors.New("log store is closed")

	// ErrPoolClosed indicates a connection was submitted after the pool shut down
	ErrPoolClosed = errors.New("worker pool is closed")
)
