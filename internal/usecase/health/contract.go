package health

import "context"

// DBPinger checks record store connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks geocode cache connectivity.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// StoragePinger checks object storage connectivity.
type StoragePinger interface {
	Ping(ctx context.Context) error
}
