package remote

import "context"

// Backend is the table API the data services depend on.
type Backend interface {
	Select(ctx context.Context, table string, q Query, out any) error
	Insert(ctx context.Context, table string, row any, out any) error
	Update(ctx context.Context, table string, filters []Filter, patch any, out any) error
	Delete(ctx context.Context, table string, filters []Filter) error
}

var _ Backend = (*Client)(nil)
