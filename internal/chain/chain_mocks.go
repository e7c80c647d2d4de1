package chain

// from chain.go
//go:generate moq -pkg mocks -out ./mocks/client_mock.go . Client
