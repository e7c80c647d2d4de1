package store

// from store.go
//go:generate moq -pkg mocks -out ./mocks/escrow_store_mock.go . EscrowStore
