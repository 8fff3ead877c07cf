package serverconfig

import (
	"Aethelgard/internal/shared/config"
	"os"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf Config

func Load() {
	config.Load(defaultConfigRelPath, &Conf)
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if os.Getenv("JWT_SECRET") == "" && Conf.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.JWTSecret)
	}
}

// QueueSlots 返回每种队列允许的并发条目数（默认 1，对应“同类活动串行”规则）。
func (c Config) QueueSlots() int {
	if c.Logic.QueueSlots <= 0 {
		return 1
	}
	return c.Logic.QueueSlots
}

// ChunkSize 返回世界地图分块边长。
func (c Config) ChunkSize() int {
	if c.Logic.ChunkSize <= 0 {
		return 16
	}
	return c.Logic.ChunkSize
}
