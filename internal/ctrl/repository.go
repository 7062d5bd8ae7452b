//go:generate mockgen -destination=./mock/mock_store.go -package=mock_ctrl . Store

package ctrl

import (
	"context"
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}
