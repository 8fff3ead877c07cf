package tick

import (
	"context"
	"errors"
	"math"
	"time"

	cityapp "Aethelgard/internal/city/app"
	cityport "Aethelgard/internal/city/app/port"
	citydomain "Aethelgard/internal/city/domain"
	"Aethelgard/internal/shared/gameconfig/balance"
	"Aethelgard/internal/world/app/port"
	"Aethelgard/internal/world/domain"
	"Aethelgard/modules/kit/logx"

	"go.uber.org/zap"
)

// 战斗与掠夺规则。
const (
	winnerLossRatio = 0.10 // 胜方损失出征兵力的一成
	lootRatio       = 0.30 // 胜方至多掠走守方资源的三成（受运载量约束）
)

// Resolver 周期性推进任务状态机：
// outgoing 且到达时刻已过 → 结算到达效果一次，转 returning；
// returning 且回城时刻已过 → 兵力和携带物入库，转 completed。
// 每个任务在自己的事务里结算，单个失败只影响它自己，下轮重试。
type Resolver struct {
	cities   cityport.CityRepository
	tiles    port.TileRepository
	missions port.MissionRepository
	tx       cityport.TxRunner
	cfg      *balance.Config
	log      logx.Logger
	now      func() time.Time
}

func NewResolver(
	cities cityport.CityRepository,
	tiles port.TileRepository,
	missions port.MissionRepository,
	tx cityport.TxRunner,
	cfg *balance.Config,
	log logx.Logger,
) *Resolver {
	return &Resolver{
		cities:   cities,
		tiles:    tiles,
		missions: missions,
		tx:       tx,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// ResolveDue 处理所有已到期的到达和回城，返回成功结算的任务数。
func (r *Resolver) ResolveDue(ctx context.Context) int {
	now := r.now()
	resolved := 0

	arrivals, err := r.missions.LoadDueArrivals(ctx, now)
	if err != nil {
		r.warn("load due arrivals failed", "", err)
	} else {
		for _, m := range arrivals {
			if err := r.resolveArrival(ctx, m.ID); err != nil {
				r.warn("resolve arrival failed", m.ID, err)
				continue
			}
			resolved++
		}
	}

	returns, err := r.missions.LoadDueReturns(ctx, now)
	if err != nil {
		r.warn("load due returns failed", "", err)
	} else {
		for _, m := range returns {
			if err := r.resolveReturn(ctx, m.ID); err != nil {
				r.warn("resolve return failed", m.ID, err)
				continue
			}
			resolved++
		}
	}
	return resolved
}

// resolveArrival 在一个事务里重读任务并结算到达效果。
// 事务内再次检查状态，并发的两轮 resolver 只有一个能生效。
func (r *Resolver) resolveArrival(ctx context.Context, missionID string) error {
	return r.tx.RunTransaction(ctx, func(ctx context.Context) error {
		m, err := r.missions.LoadMission(ctx, missionID)
		if err != nil {
			return err
		}
		if m.Status != domain.StatusOutgoing || m.ArrivalTime.After(r.now()) {
			return nil
		}

		target, err := r.tiles.LoadTile(ctx, m.TargetTileID)
		if err != nil {
			return err
		}

		switch m.Action {
		case domain.ActionAttack:
			if err := r.applyAttack(ctx, m, target); err != nil {
				return err
			}
		case domain.ActionSpy:
			m.Report = r.defenderArmy(ctx, target)
		case domain.ActionGather:
			r.applyGather(ctx, m, target)
			if err := r.tiles.Save(ctx, target); err != nil {
				return err
			}
		case domain.ActionSendRss:
			if err := r.applySendRss(ctx, m, target); err != nil {
				return err
			}
		}

		m.Status = domain.StatusReturning
		return r.missions.Save(ctx, m)
	})
}

// resolveReturn 兵力和携带物回城，解除采集占用，任务终结。
func (r *Resolver) resolveReturn(ctx context.Context, missionID string) error {
	return r.tx.RunTransaction(ctx, func(ctx context.Context) error {
		m, err := r.missions.LoadMission(ctx, missionID)
		if err != nil {
			return err
		}
		if m.Status != domain.StatusReturning || m.ReturnTime.After(r.now()) {
			return nil
		}

		origin, err := r.cities.LoadCity(ctx, m.OriginCityID)
		if err != nil {
			return err
		}
		origin.CreditArmy(m.Army)
		if !m.Loot.IsZero() {
			origin.Resources = origin.Resources.
				Add(m.Loot).
				Clamp(cityapp.CapacityOf(r.cfg, origin))
		}
		origin.UpdatedAt = r.now()
		if err := r.cities.Save(ctx, origin); err != nil {
			return err
		}

		if m.Action == domain.ActionGather {
			tile, err := r.tiles.LoadTile(ctx, m.TargetTileID)
			switch {
			case err == nil:
				tile.ReleaseGather(m.ID)
				if err := r.tiles.Save(ctx, tile); err != nil {
					return err
				}
			case errors.Is(err, domain.ErrTileNotFound):
				// 格子已不存在，没有占用可解除。
			default:
				// 读取失败时中止事务，下轮重试，避免带着未解除的占用终结任务。
				return err
			}
		}

		m.Status = domain.StatusCompleted
		return r.missions.Save(ctx, m)
	})
}

// applyAttack 战斗结算：攻方战力 Σ 数量×攻击 对 守方 Σ 数量×防御。
// 胜方损失一成兵力，败方全灭；攻方获胜时掠夺 min(运载量, 守方资源三成)。
func (r *Resolver) applyAttack(ctx context.Context, m *domain.WorldMission, target *domain.Tile) error {
	attack := r.armyPower(m.Army, func(u *balance.Unit) int { return u.Attack })

	defenders := r.defenderArmy(ctx, target)
	defense := r.armyPower(defenders, func(u *balance.Unit) int { return u.Defense })

	if attack > defense {
		m.Army = decimate(m.Army, winnerLossRatio)
		if target.Type == domain.TileCity && target.CityID != "" {
			defender, err := r.cities.LoadCity(ctx, target.CityID)
			if err != nil {
				return err
			}
			defender.Army = map[string]int{}
			m.Loot = lootFrom(defender.Resources, domain.TransportCapacity(r.cfg, m.Army))
			defender.Resources = defender.Resources.Sub(m.Loot)
			defender.UpdatedAt = r.now()
			return r.cities.Save(ctx, defender)
		}
		if target.Type == domain.TileNpcCamp {
			target.NpcTroops = map[string]int{}
			return r.tiles.Save(ctx, target)
		}
		return nil
	}

	// 攻方战败：出征兵力全灭，守方损失一成
	m.Army = map[string]int{}
	if target.Type == domain.TileCity && target.CityID != "" {
		defender, err := r.cities.LoadCity(ctx, target.CityID)
		if err != nil {
			return err
		}
		defender.Army = decimate(defender.Army, winnerLossRatio)
		defender.UpdatedAt = r.now()
		return r.cities.Save(ctx, defender)
	}
	if target.Type == domain.TileNpcCamp {
		target.NpcTroops = decimate(target.NpcTroops, winnerLossRatio)
		return r.tiles.Save(ctx, target)
	}
	return nil
}

// applyGather 装载采集物：受运载量和格子库存双重约束，库存同步扣减。
func (r *Resolver) applyGather(ctx context.Context, m *domain.WorldMission, target *domain.Tile) {
	kind := citydomain.Kind(target.ResourceType)
	if !citydomain.ValidKind(kind) {
		return
	}
	got := target.DrainResource(domain.TransportCapacity(r.cfg, m.Army))
	if got > 0 {
		m.Loot.Set(kind, got)
	}
}

// applySendRss 运送入库：收货城按自身容量夹持，溢出部分损耗。
func (r *Resolver) applySendRss(ctx context.Context, m *domain.WorldMission, target *domain.Tile) error {
	if target.CityID == "" {
		return nil
	}
	receiver, err := r.cities.LoadCity(ctx, target.CityID)
	if err != nil {
		return err
	}
	receiver.Resources = receiver.Resources.
		Add(m.Resources).
		Clamp(cityapp.CapacityOf(r.cfg, receiver))
	receiver.UpdatedAt = r.now()
	m.Resources = citydomain.Amounts{}
	return r.cities.Save(ctx, receiver)
}

// defenderArmy 目标格子的守军：城池是驻防军，npc 营地是营地守军。
func (r *Resolver) defenderArmy(ctx context.Context, target *domain.Tile) map[string]int {
	switch target.Type {
	case domain.TileCity:
		if target.CityID == "" {
			return nil
		}
		c, err := r.cities.LoadCity(ctx, target.CityID)
		if err != nil {
			return nil
		}
		return c.Army
	case domain.TileNpcCamp:
		return target.NpcTroops
	}
	return nil
}

func (r *Resolver) armyPower(army map[string]int, stat func(u *balance.Unit) int) int64 {
	var total int64
	for id, n := range army {
		if n <= 0 {
			continue
		}
		if u, ok := r.cfg.Unit(id); ok {
			total += int64(stat(u)) * int64(n)
		}
	}
	return total
}

// decimate 按比例减员，向上取整，保证非零损失。
func decimate(army map[string]int, ratio float64) map[string]int {
	out := make(map[string]int, len(army))
	for id, n := range army {
		if n <= 0 {
			continue
		}
		loss := int(math.Ceil(float64(n) * ratio))
		if rest := n - loss; rest > 0 {
			out[id] = rest
		}
	}
	return out
}

// lootFrom 掠夺守方资源的三成，总量超运载量时按比例缩减。
func lootFrom(defender citydomain.Amounts, capacity int64) citydomain.Amounts {
	var want citydomain.Amounts
	for _, k := range citydomain.AllKinds() {
		want.Set(k, int64(float64(defender.Get(k))*lootRatio))
	}
	total := want.Total()
	if total <= capacity || total == 0 {
		return want
	}
	scale := float64(capacity) / float64(total)
	var out citydomain.Amounts
	for _, k := range citydomain.AllKinds() {
		out.Set(k, int64(float64(want.Get(k))*scale))
	}
	return out
}

func (r *Resolver) warn(msg, missionID string, err error) {
	if r.log == nil {
		return
	}
	r.log.Warn(msg,
		zap.String("mission_id", missionID),
		zap.Error(err),
	)
}
