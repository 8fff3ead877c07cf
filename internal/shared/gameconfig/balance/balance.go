package balance

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const balanceFile = "Balance.json"

// ResourceCost 是平衡表里的一份资源开销/产出（与 city 域的 Amounts 解耦，边界处转换）。
type ResourceCost struct {
	Stone int64 `json:"stone"`
	Wood  int64 `json:"wood"`
	Food  int64 `json:"food"`
	Mana  int64 `json:"mana"`
}

type Building struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Produces 为该建筑产出的资源种类（stone/wood/food/mana），非产出类建筑为空。
	Produces     string       `json:"produces"`
	RatePerLevel float64      `json:"rate_per_level"` // 每级每小时产量
	BaseCost     ResourceCost `json:"base_cost"`
	CostFactor   float64      `json:"cost_factor"`       // 默认 1.5
	TimeBaseS    int          `json:"build_time_base_s"` // 默认 20
	TimeFactor   float64      `json:"time_factor"`       // 默认 1.25
	MaxLevel     int          `json:"max_level"`
}

type Unit struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Cost       ResourceCost `json:"cost"`
	TrainTimeS int          `json:"train_time_s"` // 单个单位训练耗时
	Speed      float64      `json:"speed"`        // 格/小时，整支军队取最慢者
	Capacity   int64        `json:"capacity"`     // 单个单位运载量
	Attack     int          `json:"attack"`
	Defense    int          `json:"defense"`
}

type Research struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Boosts 该科技加成的资源产出种类（stone/wood/food/mana），无产出加成为空。
	Boosts     string       `json:"boosts"`
	BaseCost   ResourceCost `json:"base_cost"`
	CostFactor float64      `json:"cost_factor"`
	TimeBaseS  int          `json:"research_time_base_s"`
	TimeFactor float64      `json:"time_factor"`
}

type Config struct {
	Buildings []Building `json:"buildings"`
	Units     []Unit     `json:"units"`
	Research  []Research `json:"research"`
	// WarehouseCapacityBase 仓库每级为每种资源提供的容量。
	WarehouseCapacityBase int64 `json:"warehouse_capacity_base"`

	buildings map[string]*Building
	units     map[string]*Unit
	research  map[string]*Research
}

// Load 加载与源码同目录的 Balance.json（与 facility 等配置模块一致的方式）。
// 表格损坏属于部署错误，直接 panic。
func Load() *Config {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("load Balance config failed: runtime.Caller(0) error")
	}
	path := filepath.Join(filepath.Dir(file), balanceFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("load Balance config failed: read %q: %w", path, err))
	}

	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		panic(fmt.Errorf("load Balance config failed: unmarshal %q: %w", path, err))
	}
	if err := c.index(); err != nil {
		panic(fmt.Errorf("load Balance config failed: %w", err))
	}
	return &c
}

// index 建索引并补默认系数；重复/空 id 视为表格损坏。
func (c *Config) index() error {
	c.buildings = make(map[string]*Building, len(c.Buildings))
	for i := range c.Buildings {
		b := &c.Buildings[i]
		if b.ID == "" {
			return fmt.Errorf("building with empty id")
		}
		if _, dup := c.buildings[b.ID]; dup {
			return fmt.Errorf("duplicate building id=%q", b.ID)
		}
		if b.CostFactor <= 0 {
			b.CostFactor = 1.5
		}
		if b.TimeFactor <= 0 {
			b.TimeFactor = 1.25
		}
		if b.TimeBaseS <= 0 {
			b.TimeBaseS = 20
		}
		if b.MaxLevel <= 0 {
			b.MaxLevel = 30
		}
		c.buildings[b.ID] = b
	}

	c.units = make(map[string]*Unit, len(c.Units))
	for i := range c.Units {
		u := &c.Units[i]
		if u.ID == "" {
			return fmt.Errorf("unit with empty id")
		}
		if _, dup := c.units[u.ID]; dup {
			return fmt.Errorf("duplicate unit id=%q", u.ID)
		}
		if u.Speed <= 0 {
			return fmt.Errorf("unit %q has no speed", u.ID)
		}
		c.units[u.ID] = u
	}

	c.research = make(map[string]*Research, len(c.Research))
	for i := range c.Research {
		r := &c.Research[i]
		if r.ID == "" {
			return fmt.Errorf("research with empty id")
		}
		if _, dup := c.research[r.ID]; dup {
			return fmt.Errorf("duplicate research id=%q", r.ID)
		}
		if r.CostFactor <= 0 {
			r.CostFactor = 1.5
		}
		if r.TimeFactor <= 0 {
			r.TimeFactor = 1.35
		}
		if r.TimeBaseS <= 0 {
			r.TimeBaseS = 30
		}
		c.research[r.ID] = r
	}

	if c.WarehouseCapacityBase <= 0 {
		c.WarehouseCapacityBase = 500
	}
	return nil
}

// NewConfig 由测试或工具直接构造平衡表（跳过文件加载）。
func NewConfig(buildings []Building, units []Unit, research []Research, warehouseBase int64) (*Config, error) {
	c := &Config{
		Buildings:             buildings,
		Units:                 units,
		Research:              research,
		WarehouseCapacityBase: warehouseBase,
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Building(id string) (*Building, bool) {
	b, ok := c.buildings[id]
	return b, ok
}

func (c *Config) Unit(id string) (*Unit, bool) {
	u, ok := c.units[id]
	return u, ok
}

func (c *Config) ResearchKind(id string) (*Research, bool) {
	r, ok := c.research[id]
	return r, ok
}

// CapacityAt 仓库 level 级时每种资源的容量上限（0 级也给基础容量，新城不至于颗粒无收）。
func (c *Config) CapacityAt(warehouseLevel int) int64 {
	lvl := warehouseLevel
	if lvl < 1 {
		lvl = 1
	}
	return c.WarehouseCapacityBase * int64(lvl)
}

// CostAt 从当前等级 level 升到 level+1 的开销：floor(base × factor^(level−1))。
// 1→2 收基础价。
func (b *Building) CostAt(level int) ResourceCost {
	return scaleCost(b.BaseCost, b.CostFactor, level)
}

// DurationAt 从当前等级 level 升到 level+1 的建造耗时：round(base × factor^(level−1))。
func (b *Building) DurationAt(level int) time.Duration {
	return scaleDuration(b.TimeBaseS, b.TimeFactor, level)
}

func (r *Research) CostAt(level int) ResourceCost {
	return scaleCost(r.BaseCost, r.CostFactor, level)
}

func (r *Research) DurationAt(level int) time.Duration {
	return scaleDuration(r.TimeBaseS, r.TimeFactor, level)
}

// TrainDuration 训练 amount 个单位的总耗时。
func (u *Unit) TrainDuration(amount int) time.Duration {
	if amount < 0 {
		amount = 0
	}
	return time.Duration(u.TrainTimeS*amount) * time.Second
}

// TrainCost 训练 amount 个单位的总开销。
func (u *Unit) TrainCost(amount int) ResourceCost {
	n := int64(amount)
	return ResourceCost{
		Stone: u.Cost.Stone * n,
		Wood:  u.Cost.Wood * n,
		Food:  u.Cost.Food * n,
		Mana:  u.Cost.Mana * n,
	}
}

func scaleCost(base ResourceCost, factor float64, level int) ResourceCost {
	m := growth(factor, level)
	return ResourceCost{
		Stone: int64(math.Floor(float64(base.Stone) * m)),
		Wood:  int64(math.Floor(float64(base.Wood) * m)),
		Food:  int64(math.Floor(float64(base.Food) * m)),
		Mana:  int64(math.Floor(float64(base.Mana) * m)),
	}
}

func scaleDuration(baseS int, factor float64, level int) time.Duration {
	secs := math.Round(float64(baseS) * growth(factor, level))
	return time.Duration(secs) * time.Second
}

func growth(factor float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	return math.Pow(factor, float64(level-1))
}
