package app

import (
	"Aethelgard/internal/city/app/port"
	"Aethelgard/internal/city/domain"
	"Aethelgard/internal/shared/gameconfig/balance"
	"Aethelgard/internal/shared/utils"
	"Aethelgard/modules/kit/logx"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type CityService struct {
	repo     port.CityRepository
	tx       port.TxRunner
	cfg      *balance.Config
	slots    int
	log      logx.Logger
	notifier Notifier
	now      func() time.Time
}

func NewCityService(repo port.CityRepository, tx port.TxRunner, cfg *balance.Config, queueSlots int, log logx.Logger, notifier Notifier) *CityService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if queueSlots < 1 {
		queueSlots = 1
	}
	return &CityService{
		repo:     repo,
		tx:       tx,
		cfg:      cfg,
		slots:    queueSlots,
		log:      log,
		notifier: notifier,
		now:      time.Now,
	}
}

// GetCity 读取城池并结算到当前时刻的资源（请求触发的 tick 路径，会夹容量并持久化）。
func (s *CityService) GetCity(ctx context.Context, uid int, cityID string) (*domain.City, error) {
	var out *domain.City
	err := s.tx.RunTransaction(ctx, func(ctx context.Context) error {
		c, err := s.loadOwned(ctx, uid, cityID)
		if err != nil {
			return err
		}
		s.accrue(c)
		if err := s.repo.Save(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// StartBuild 开始一次建筑升级。校验全部在扣费之前，失败不产生任何变更。
func (s *CityService) StartBuild(ctx context.Context, uid int, cityID, buildingID string) (*domain.City, error) {
	b, ok := s.cfg.Building(buildingID)
	if !ok {
		return nil, domain.ErrUnknownKind.WithData("building", buildingID)
	}

	var out *domain.City
	err := s.tx.RunTransaction(ctx, func(ctx context.Context) error {
		c, err := s.loadOwned(ctx, uid, cityID)
		if err != nil {
			return err
		}
		s.accrue(c)

		cur := c.BuildingLevel(buildingID)
		target := cur + 1
		if target > b.MaxLevel {
			return domain.ErrMaxLevel.WithData("building", buildingID).WithData("max", b.MaxLevel)
		}
		// 开销与耗时按当前等级取值：1→2 收基础价。
		cost := toAmounts(b.CostAt(cur))
		if _, err := c.Enqueue(domain.QueueBuilding, buildingID, target, 0, cost, b.DurationAt(cur), s.slots, s.now()); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// StartResearch 开始一次科技研究。等级从 1 起，目标为当前等级 +1。
func (s *CityService) StartResearch(ctx context.Context, uid int, cityID, researchID string) (*domain.City, error) {
	r, ok := s.cfg.ResearchKind(researchID)
	if !ok {
		return nil, domain.ErrUnknownKind.WithData("research", researchID)
	}

	var out *domain.City
	err := s.tx.RunTransaction(ctx, func(ctx context.Context) error {
		c, err := s.loadOwned(ctx, uid, cityID)
		if err != nil {
			return err
		}
		s.accrue(c)

		cur := c.ResearchLevel(researchID)
		target := cur + 1
		cost := toAmounts(r.CostAt(cur))
		if _, err := c.Enqueue(domain.QueueResearch, researchID, target, 0, cost, r.DurationAt(cur), s.slots, s.now()); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// StartTraining 开始训练 amount 个单位。
func (s *CityService) StartTraining(ctx context.Context, uid int, cityID, unitID string, amount int) (*domain.City, error) {
	u, ok := s.cfg.Unit(unitID)
	if !ok {
		return nil, domain.ErrUnknownKind.WithData("unit", unitID)
	}
	if amount <= 0 {
		return nil, domain.ErrBadAmount.WithData("amount", amount)
	}

	var out *domain.City
	err := s.tx.RunTransaction(ctx, func(ctx context.Context) error {
		c, err := s.loadOwned(ctx, uid, cityID)
		if err != nil {
			return err
		}
		s.accrue(c)

		cost := toAmounts(u.TrainCost(amount))
		if _, err := c.Enqueue(domain.QueueTraining, unitID, 0, amount, cost, u.TrainDuration(amount), s.slots, s.now()); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// ProcessQueue 按需结算：客户端发现队列可能已完成时调用。
// 幂等由 domain.Settle 的“生效 + 出列”原子步骤保证，重复触发不会重复生效。
func (s *CityService) ProcessQueue(ctx context.Context, uid int, cityID string, kind domain.QueueKind) (*domain.City, error) {
	var out *domain.City
	var completed int
	err := s.tx.RunTransaction(ctx, func(ctx context.Context) error {
		c, err := s.loadOwned(ctx, uid, cityID)
		if err != nil {
			return err
		}
		s.accrue(c)

		done := c.Settle(kind, s.now(), s.warnMalformed(cityID, kind))
		completed = len(done)
		if err := s.repo.Save(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	if completed > 0 {
		s.notifier.NotifyCityUpdate(uid, out)
	}
	return out, nil
}

// CreateStarterCity 注册钩子：给新账号建开局城池。
func (s *CityService) CreateStarterCity(ctx context.Context, uid int, name string) (*domain.City, error) {
	id, err := utils.NextSnowflakeID()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = fmt.Sprintf("Stadt %d", uid)
	}
	c := domain.NewStarterCity(fmt.Sprintf("%d", id), uid, name, s.now())
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// loadOwned 读取并校验归属；不是本人的城按不存在处理，不泄露他人城池信息。
func (s *CityService) loadOwned(ctx context.Context, uid int, cityID string) (*domain.City, error) {
	c, err := s.repo.LoadCity(ctx, cityID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != uid {
		return nil, domain.ErrCityNotFound.WithData("city_id", cityID)
	}
	return c, nil
}

// accrue 把资源推进到 now 并更新 lastTickAt（与保存同事务）。
func (s *CityService) accrue(c *domain.City) {
	now := s.now()
	elapsed := now.Sub(c.LastTickAt)
	if elapsed > 0 {
		c.Resources, c.TickRemainder = domain.Accrue(
			c.Resources, ProductionRates(s.cfg, c), CapacityOf(s.cfg, c), elapsed, c.TickRemainder)
	}
	c.LastTickAt = now
	c.UpdatedAt = now
}

func (s *CityService) warnMalformed(cityID string, kind domain.QueueKind) domain.SettleWarnFunc {
	return func(item domain.QueueItem) {
		if s.log == nil {
			return
		}
		s.log.Warn("queue item has malformed timestamp, kept as pending",
			zap.String("city_id", cityID),
			zap.String("queue", string(kind)),
			zap.String("item_id", item.ID),
			zap.String("target", item.Target),
		)
	}
}

// ProductionRates 按建筑等级和科技加成算出每小时产量：
// rate[k] = Σ 产出 k 的建筑等级 × 每级产量 × (1 + 5% × (对应科技等级 − 1))。
func ProductionRates(cfg *balance.Config, c *domain.City) domain.Rates {
	var out domain.Rates
	for id, level := range c.Buildings {
		b, ok := cfg.Building(id)
		if !ok || b.Produces == "" || level <= 0 {
			continue
		}
		k := domain.Kind(b.Produces)
		if !domain.ValidKind(k) {
			continue
		}
		out.Addf(k, float64(level)*b.RatePerLevel*researchBonus(cfg, c, k))
	}
	return out
}

const researchBonusPerLevel = 0.05

func researchBonus(cfg *balance.Config, c *domain.City, k domain.Kind) float64 {
	bonus := 1.0
	for _, r := range cfg.Research {
		if r.Boosts != string(k) {
			continue
		}
		if lvl := c.ResearchLevel(r.ID); lvl > 1 {
			bonus += researchBonusPerLevel * float64(lvl-1)
		}
	}
	return bonus
}

// CapacityOf 容量由仓库等级决定，对每种资源一致。
func CapacityOf(cfg *balance.Config, c *domain.City) domain.Amounts {
	cap := cfg.CapacityAt(c.BuildingLevel("warehouse"))
	return domain.Amounts{Stone: cap, Wood: cap, Food: cap, Mana: cap}
}

func toAmounts(rc balance.ResourceCost) domain.Amounts {
	return domain.Amounts{Stone: rc.Stone, Wood: rc.Wood, Food: rc.Food, Mana: rc.Mana}
}
