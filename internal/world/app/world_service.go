package app

import (
	"context"

	"Aethelgard/internal/world/app/port"
	"Aethelgard/internal/world/domain"
)

// ChunkSize 世界地图按固定分块返回给客户端。
const DefaultChunkSize = 16

type WorldService struct {
	tiles     port.TileRepository
	chunkSize int
}

func NewWorldService(tiles port.TileRepository, chunkSize int) *WorldService {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &WorldService{tiles: tiles, chunkSize: chunkSize}
}

// GetWorldChunk 返回 (chunkX, chunkY) 分块内已播种的格子，只读。
// 未播种的坐标不补空格子，客户端按缺失渲染为空地。
func (s *WorldService) GetWorldChunk(ctx context.Context, chunkX, chunkY int) ([]*domain.Tile, error) {
	return s.tiles.LoadChunk(ctx, chunkX, chunkY, s.chunkSize)
}
