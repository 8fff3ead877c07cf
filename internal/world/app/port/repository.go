package port

import (
	"context"
	"time"

	"Aethelgard/internal/world/domain"
)

// TileRepository 世界格子的事务化存取。
type TileRepository interface {
	// LoadTile 不存在时返回 domain.ErrTileNotFound。
	LoadTile(ctx context.Context, id string) (*domain.Tile, error)
	// LoadChunk 返回一个 chunkSize×chunkSize 分块内已播种的格子（只读路径）。
	LoadChunk(ctx context.Context, chunkX, chunkY, chunkSize int) ([]*domain.Tile, error)
	Save(ctx context.Context, t *domain.Tile) error
}

// MissionRepository 任务记录的事务化存取。
type MissionRepository interface {
	Insert(ctx context.Context, m *domain.WorldMission) error
	// LoadMission 不存在时返回 domain.ErrMissionNotFound。
	LoadMission(ctx context.Context, id string) (*domain.WorldMission, error)
	LoadByOwner(ctx context.Context, ownerID int) ([]*domain.WorldMission, error)
	// LoadDueArrivals 状态 outgoing 且 arrivalTime <= now 的任务。
	LoadDueArrivals(ctx context.Context, now time.Time) ([]*domain.WorldMission, error)
	// LoadDueReturns 状态 returning 且 returnTime <= now 的任务。
	LoadDueReturns(ctx context.Context, now time.Time) ([]*domain.WorldMission, error)
	Save(ctx context.Context, m *domain.WorldMission) error
}
