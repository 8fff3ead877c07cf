package domain

import (
	"math"
	"time"

	citydomain "Aethelgard/internal/city/domain"
	"Aethelgard/internal/shared/gameconfig/balance"
)

// ActionType 任务行动类型。
type ActionType string

const (
	ActionAttack  ActionType = "ATTACK"
	ActionSpy     ActionType = "SPY"
	ActionGather  ActionType = "GATHER"
	ActionSendRss ActionType = "SEND_RSS"
)

func ValidAction(a ActionType) bool {
	switch a {
	case ActionAttack, ActionSpy, ActionGather, ActionSendRss:
		return true
	}
	return false
}

// MissionStatus 由时间推进驱动：outgoing → arrived → returning → completed。
type MissionStatus string

const (
	StatusOutgoing MissionStatus = "outgoing"
	// arrived 是瞬时态：到达效果与转 returning 在同一事务里一次完成，
	// 本服务落库的状态只会从 outgoing 直接跳到 returning。
	// 保留该值是因为 status 列是开放字符串，历史数据可能携带它。
	StatusArrived   MissionStatus = "arrived"
	StatusReturning MissionStatus = "returning"
	StatusCompleted MissionStatus = "completed"
)

// WorldMission 两个坐标之间的一次部队/资源调度。
// 不变量：StartTime < ArrivalTime < ReturnTime，且去程和回程对称
// （ReturnTime = StartTime + 2×(ArrivalTime − StartTime)）。
type WorldMission struct {
	ID            string
	OwnerID       int
	OriginCityID  string
	OriginX       int
	OriginY       int
	TargetTileID  string
	TargetX       int
	TargetY       int
	TargetOwnerID int
	Action        ActionType

	// Army 出征时从源城扣减的兵力；战斗减员后剩余随任务回城。
	Army map[string]int
	// Resources 仅 SEND_RSS：出征时扣减的运送资源。
	Resources citydomain.Amounts
	// Loot 到达阶段装载的战利品/采集物，回城时入库。
	Loot citydomain.Amounts
	// Report 仅 SPY：到达时侦察到的守军。
	Report map[string]int

	StartTime   time.Time
	ArrivalTime time.Time
	ReturnTime  time.Time
	Status      MissionStatus
}

// TransportCapacity 部队的总运载量：Σ 单位运载量 × 数量。
func TransportCapacity(cfg *balance.Config, army map[string]int) int64 {
	var total int64
	for id, n := range army {
		if n <= 0 {
			continue
		}
		if u, ok := cfg.Unit(id); ok {
			total += u.Capacity * int64(n)
		}
	}
	return total
}

// armySpeed 整支部队的速度取最慢兵种（格/小时）。
func armySpeed(cfg *balance.Config, army map[string]int) (float64, bool) {
	slowest := math.Inf(1)
	found := false
	for id, n := range army {
		if n <= 0 {
			continue
		}
		u, ok := cfg.Unit(id)
		if !ok {
			continue
		}
		if u.Speed < slowest {
			slowest = u.Speed
		}
		found = true
	}
	return slowest, found
}

// Distance 两点间欧几里得距离（格）。
func Distance(x1, y1, x2, y2 int) float64 {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	return math.Sqrt(dx*dx + dy*dy)
}

// PlanMission 纯校验 + 计时，不产生任何变更。校验顺序：
//  1. 兵力是否足够（每种单位）
//  2. SEND_RSS 的资源载荷是否合法、是否超运载量
//  3. 行动与目标格子是否兼容（GATHER 要求未被占用的资源格）
//
// 通过后计算行军时间：distance/speed 小时，去回对称。
// 扣减和落库由调用方在同一事务内完成。
func PlanMission(
	cfg *balance.Config,
	origin *citydomain.City,
	target *Tile,
	action ActionType,
	army map[string]int,
	payload citydomain.Amounts,
	now time.Time,
) (*WorldMission, error) {
	if !ValidAction(action) {
		return nil, ErrInvalidTarget.WithData("action", string(action))
	}

	committed := false
	for id, n := range army {
		if n <= 0 {
			return nil, citydomain.ErrBadAmount.WithData("unit", id)
		}
		if _, ok := cfg.Unit(id); !ok {
			return nil, citydomain.ErrUnknownKind.WithData("unit", id)
		}
		if origin.UnitCount(id) < n {
			return nil, citydomain.ErrUnitNotEnough.
				WithData("unit", id).
				WithData("have", origin.UnitCount(id)).
				WithData("need", n)
		}
		committed = true
	}
	if !committed {
		return nil, citydomain.ErrUnitNotEnough.WithData("reason", "empty army")
	}

	if action == ActionSendRss {
		if payload.IsZero() {
			return nil, ErrBadPayload.WithData("reason", "no resources requested")
		}
		if k, missing, short := origin.Resources.FirstShortfall(payload); short {
			return nil, citydomain.ErrResourceNotEnough.
				WithData("resource", string(k)).
				WithData("missing", missing)
		}
		if cap := TransportCapacity(cfg, army); payload.Total() > cap {
			return nil, ErrCapacityExceeded.
				WithData("capacity", cap).
				WithData("requested", payload.Total())
		}
	} else if !payload.IsZero() {
		return nil, ErrBadPayload.WithData("reason", "resources only valid for SEND_RSS")
	}

	if err := checkTarget(action, target); err != nil {
		return nil, err
	}

	speed, ok := armySpeed(cfg, army)
	if !ok || speed <= 0 {
		// 给定前面的兵力校验这里到不了，仍保留防线。
		return nil, ErrNoArmySpeed
	}
	dist := Distance(origin.X, origin.Y, target.X, target.Y)
	march := time.Duration(dist / speed * float64(time.Hour))
	if march <= 0 {
		march = time.Second
	}

	m := &WorldMission{
		OwnerID:       origin.OwnerID,
		OriginCityID:  origin.ID,
		OriginX:       origin.X,
		OriginY:       origin.Y,
		TargetTileID:  target.ID,
		TargetX:       target.X,
		TargetY:       target.Y,
		TargetOwnerID: target.OwnerID,
		Action:        action,
		Army:          army,
		Resources:     payload,
		StartTime:     now,
		ArrivalTime:   now.Add(march),
		ReturnTime:    now.Add(2 * march),
		Status:        StatusOutgoing,
	}
	return m, nil
}

func checkTarget(action ActionType, target *Tile) error {
	switch action {
	case ActionGather:
		if target.Type != TileResource || target.ActiveMissionID != "" {
			return ErrInvalidTarget.
				WithData("tile_id", target.ID).
				WithData("type", string(target.Type))
		}
	case ActionAttack, ActionSpy:
		if target.Type != TileCity && target.Type != TileNpcCamp {
			return ErrInvalidTarget.
				WithData("tile_id", target.ID).
				WithData("type", string(target.Type))
		}
	case ActionSendRss:
		if target.Type != TileCity {
			return ErrInvalidTarget.
				WithData("tile_id", target.ID).
				WithData("type", string(target.Type))
		}
	}
	return nil
}
