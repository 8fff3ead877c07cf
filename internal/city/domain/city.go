package domain

import "time"

// City 玩家的生产单元（聚合根，事务隔离边界）。
type City struct {
	ID      string
	OwnerID int
	Name    string
	X       int
	Y       int

	Resources Amounts
	// TickRemainder 上次结算留下的不足 1 单位的产量尾数，随 Resources 同事务存取。
	TickRemainder Fractions
	// Buildings/Research/Army 的 key 在存储边界按平衡表校验，未知 key 拒绝入库。
	Buildings map[string]int
	Research  map[string]int // 等级从 1 起
	Army      map[string]int

	BuildingQueue []QueueItem
	TrainingQueue []QueueItem
	ResearchQueue []QueueItem

	// TileID 城池落地后指向世界格子（弱引用，不拥有 Tile）。
	TileID string

	LastTickAt time.Time
	UpdatedAt  time.Time
}

func (c *City) BuildingLevel(id string) int {
	return c.Buildings[id]
}

func (c *City) ResearchLevel(id string) int {
	if lvl, ok := c.Research[id]; ok {
		return lvl
	}
	return 1
}

func (c *City) UnitCount(id string) int {
	return c.Army[id]
}

// DebitArmy 扣减出征兵力；任何一种不足则整体失败、不产生部分扣减。
func (c *City) DebitArmy(units map[string]int) error {
	for id, n := range units {
		if n <= 0 {
			return ErrBadAmount.WithData("unit", id)
		}
		if c.Army[id] < n {
			return ErrUnitNotEnough.
				WithData("unit", id).
				WithData("have", c.Army[id]).
				WithData("need", n)
		}
	}
	for id, n := range units {
		c.Army[id] -= n
	}
	return nil
}

// CreditArmy 归还（回城）兵力。
func (c *City) CreditArmy(units map[string]int) {
	if c.Army == nil {
		c.Army = make(map[string]int, len(units))
	}
	for id, n := range units {
		if n > 0 {
			c.Army[id] += n
		}
	}
}

// NewStarterCity 开局城池（注册时创建一次）。
func NewStarterCity(id string, ownerID int, name string, now time.Time) *City {
	return &City{
		ID:      id,
		OwnerID: ownerID,
		Name:    name,
		Resources: Amounts{
			Stone: 200,
			Wood:  200,
			Food:  150,
			Mana:  50,
		},
		Buildings: map[string]int{
			"townhall":   1,
			"quarry":     1,
			"lumberyard": 1,
			"farm":       1,
			"warehouse":  1,
		},
		Research: map[string]int{},
		Army: map[string]int{
			"swordsman": 10,
			"scout":     2,
		},
		LastTickAt: now,
		UpdatedAt:  now,
	}
}
