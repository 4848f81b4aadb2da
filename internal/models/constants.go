package models

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	// DefaultPageSize is the page length used when the caller does not pass one.
	DefaultPageSize = 20

	// DefaultViewCacheTTL время жизни кэша витрин предметов, в секундах.
	DefaultViewCacheTTL = 5 * 60

	// WorkerQueueSize размер очереди экспорта.
	WorkerQueueSize = 1000
)
