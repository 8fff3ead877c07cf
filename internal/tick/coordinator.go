package tick

import (
	"context"
	"time"

	cityapp "Aethelgard/internal/city/app"
	cityport "Aethelgard/internal/city/app/port"
	citydomain "Aethelgard/internal/city/domain"
	"Aethelgard/internal/shared/gameconfig/balance"
	"Aethelgard/modules/kit/logx"

	"go.uber.org/zap"
)

// Coordinator 周期性地把全量城池的资源推进到当前时刻。
// 整批在一个事务里提交：任何一座城失败则本轮整体放弃，留到下个周期重试，
// 绝不允许半批生效。
type Coordinator struct {
	cities cityport.CityRepository
	tx     cityport.TxRunner
	cfg    *balance.Config
	log    logx.Logger
	now    func() time.Time
}

func NewCoordinator(cities cityport.CityRepository, tx cityport.TxRunner, cfg *balance.Config, log logx.Logger) *Coordinator {
	return &Coordinator{
		cities: cities,
		tx:     tx,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// RunGlobalTick 执行一轮全局 tick，返回实际推进的城池数。
func (c *Coordinator) RunGlobalTick(ctx context.Context) (int, error) {
	started := c.now()
	var advanced int

	err := c.tx.RunTransaction(ctx, func(ctx context.Context) error {
		advanced = 0
		cities, err := c.cities.LoadAll(ctx)
		if err != nil {
			return err
		}

		now := c.now()
		var dirty []*citydomain.City
		for _, city := range cities {
			elapsed := now.Sub(city.LastTickAt)
			if elapsed <= 0 {
				continue
			}
			city.Resources, city.TickRemainder = citydomain.Accrue(
				city.Resources,
				cityapp.ProductionRates(c.cfg, city),
				cityapp.CapacityOf(c.cfg, city),
				elapsed,
				city.TickRemainder,
			)
			city.LastTickAt = now
			city.UpdatedAt = now
			dirty = append(dirty, city)
		}
		if len(dirty) == 0 {
			return nil
		}
		if err := c.cities.SaveAll(ctx, dirty); err != nil {
			return err
		}
		advanced = len(dirty)
		return nil
	})
	if err != nil {
		if c.log != nil {
			c.log.Error("global tick failed, whole batch dropped",
				zap.Error(err),
				zap.Duration("took", c.now().Sub(started)),
			)
		}
		return 0, err
	}

	if c.log != nil {
		c.log.Info("global tick done",
			zap.Int("cities_advanced", advanced),
			zap.Duration("took", c.now().Sub(started)),
		)
	}
	return advanced, nil
}
