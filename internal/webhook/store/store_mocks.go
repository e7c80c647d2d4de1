package store

// from store.go
//go:generate moq -pkg mocks -out ./mocks/webhook_store_mock.go . WebhookStore
