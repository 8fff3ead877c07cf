package model

import (
	"time"

	"Aethelgard/internal/city/domain"
	"Aethelgard/internal/shared/gameconfig/balance"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CityDoc 是 city 集合里的持久化形态。
// 存量数据的时间字段格式不统一（Date / RFC3339 字符串 / unix 毫秒 / {seconds,nanoseconds}），
// 因此队列条目的时间用 any 接住，读取时统一规约。
type CityDoc struct {
	ID      string `bson:"_id"`
	OwnerID int    `bson:"owner_id"`
	Name    string `bson:"name"`
	X       int    `bson:"x"`
	Y       int    `bson:"y"`

	Resources domain.Amounts `bson:"resources"`
	// 存量文档没有 tick_remainder，缺省解析为全零尾数。
	TickRemainder domain.Fractions `bson:"tick_remainder"`
	Buildings     map[string]int   `bson:"buildings"`
	Research      map[string]int   `bson:"research"`
	Army          map[string]int   `bson:"army"`

	BuildingQueue []QueueItemDoc `bson:"building_queue"`
	TrainingQueue []QueueItemDoc `bson:"training_queue"`
	ResearchQueue []QueueItemDoc `bson:"research_queue"`

	TileID string `bson:"tile_id,omitempty"`

	LastTickAt time.Time `bson:"last_tick_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

type QueueItemDoc struct {
	ID          string `bson:"id"`
	Target      string `bson:"target"`
	TargetLevel int    `bson:"target_level,omitempty"`
	Amount      int    `bson:"amount,omitempty"`
	StartTime   any    `bson:"start_time"`
	EndTime     any    `bson:"end_time"`
}

// FromCity 领域对象 → 文档。新写入的时间一律是 time.Time（BSON Date）。
func FromCity(c *domain.City) *CityDoc {
	return &CityDoc{
		ID:      c.ID,
		OwnerID: c.OwnerID,
		Name:    c.Name,
		X:       c.X,
		Y:       c.Y,

		Resources:     c.Resources,
		TickRemainder: c.TickRemainder,
		Buildings:     c.Buildings,
		Research:      c.Research,
		Army:          c.Army,

		BuildingQueue: fromQueue(c.BuildingQueue),
		TrainingQueue: fromQueue(c.TrainingQueue),
		ResearchQueue: fromQueue(c.ResearchQueue),

		TileID: c.TileID,

		LastTickAt: c.LastTickAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func fromQueue(items []domain.QueueItem) []QueueItemDoc {
	if len(items) == 0 {
		return nil
	}
	out := make([]QueueItemDoc, 0, len(items))
	for _, it := range items {
		d := QueueItemDoc{
			ID:          it.ID,
			Target:      it.Target,
			TargetLevel: it.TargetLevel,
			Amount:      it.Amount,
		}
		if it.Malformed {
			// 坏时间原样不可重建，保留零值字符串让它下次加载仍被判为 Malformed。
			d.StartTime = ""
			d.EndTime = ""
		} else {
			d.StartTime = it.StartTime.UTC()
			d.EndTime = it.EndTime.UTC()
		}
		out = append(out, d)
	}
	return out
}

// ToCity 文档 → 领域对象。
// buildings/research/army 的 key 按平衡表校验，未知 key 一律拒绝（封闭枚举，
// 不允许脏数据进入领域层）。队列时间解析失败的条目标 Malformed，交由结算层告警。
func (d *CityDoc) ToCity(cfg *balance.Config) (*domain.City, error) {
	if err := validateKeys(d, cfg); err != nil {
		return nil, err
	}

	c := &domain.City{
		ID:      d.ID,
		OwnerID: d.OwnerID,
		Name:    d.Name,
		X:       d.X,
		Y:       d.Y,

		Resources:     d.Resources,
		TickRemainder: d.TickRemainder,
		Buildings:     d.Buildings,
		Research:      d.Research,
		Army:          d.Army,

		BuildingQueue: toQueue(d.BuildingQueue),
		TrainingQueue: toQueue(d.TrainingQueue),
		ResearchQueue: toQueue(d.ResearchQueue),

		TileID: d.TileID,

		LastTickAt: d.LastTickAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if c.Buildings == nil {
		c.Buildings = make(map[string]int)
	}
	if c.Research == nil {
		c.Research = make(map[string]int)
	}
	if c.Army == nil {
		c.Army = make(map[string]int)
	}
	return c, nil
}

func validateKeys(d *CityDoc, cfg *balance.Config) error {
	for id := range d.Buildings {
		if _, ok := cfg.Building(id); !ok {
			return domain.ErrUnknownKind.WithData("city_id", d.ID).WithData("building", id)
		}
	}
	for id := range d.Research {
		if _, ok := cfg.ResearchKind(id); !ok {
			return domain.ErrUnknownKind.WithData("city_id", d.ID).WithData("research", id)
		}
	}
	for id := range d.Army {
		if _, ok := cfg.Unit(id); !ok {
			return domain.ErrUnknownKind.WithData("city_id", d.ID).WithData("unit", id)
		}
	}
	return nil
}

func toQueue(docs []QueueItemDoc) []domain.QueueItem {
	if len(docs) == 0 {
		return nil
	}
	out := make([]domain.QueueItem, 0, len(docs))
	for _, d := range docs {
		it := domain.QueueItem{
			ID:          d.ID,
			Target:      d.Target,
			TargetLevel: d.TargetLevel,
			Amount:      d.Amount,
		}
		start, errS := NormalizeDocTime(d.StartTime)
		end, errE := NormalizeDocTime(d.EndTime)
		if errS != nil || errE != nil {
			it.Malformed = true
		} else {
			it.StartTime = start
			it.EndTime = end
		}
		out = append(out, it)
	}
	return out
}

// NormalizeDocTime 在领域层的时间规约之前剥掉 BSON 驱动的包装类型：
// Date 解到 any 是 bson.DateTime，内嵌文档是 bson.D/bson.M。
func NormalizeDocTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case bson.DateTime:
		return t.Time().UTC(), nil
	case bson.M:
		return domain.NormalizeTimestamp(map[string]any(t))
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = unwrapBson(e.Value)
		}
		return domain.NormalizeTimestamp(m)
	}
	return domain.NormalizeTimestamp(v)
}

func unwrapBson(v any) any {
	switch t := v.(type) {
	case int32:
		return int64(t)
	case bson.DateTime:
		return t.Time().UTC()
	}
	return v
}
