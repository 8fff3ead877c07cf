package port

import (
	"Aethelgard/internal/city/domain"
	"context"
)

// CityRepository 城池聚合的事务化存取。
// Load*/Save 在 RunTransaction 的回调 ctx 里调用时参与同一个事务。
type CityRepository interface {
	// LoadCity 不存在时返回 domain.ErrCityNotFound。
	LoadCity(ctx context.Context, id string) (*domain.City, error)
	LoadByOwner(ctx context.Context, ownerID int) ([]*domain.City, error)
	// LoadAll 周期 tick 用，返回全部城池。
	LoadAll(ctx context.Context) ([]*domain.City, error)
	Save(ctx context.Context, c *domain.City) error
	// SaveAll 批量保存，要求全部成功或全部失败（周期 tick 的提交语义）。
	SaveAll(ctx context.Context, cities []*domain.City) error
}

// TxRunner 把回调放进一个存储层事务执行：
// 读集在提交时校验未变，冲突时返回 errx.ErrConflict（可由调用方重试）。
type TxRunner interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
