package dto

import (
	citydomain "Aethelgard/internal/city/domain"
	worlddomain "Aethelgard/internal/world/domain"
	"time"
)

// CityView 城池对客户端的投影（资源已结算到响应时刻）。
type CityView struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	X         int                        `json:"x"`
	Y         int                        `json:"y"`
	Resources citydomain.Amounts         `json:"resources"`
	Buildings map[string]int             `json:"buildings"`
	Research  map[string]int             `json:"research"`
	Army      map[string]int             `json:"army"`
	Queues    map[string][]QueueItemView `json:"queues"`
}

type QueueItemView struct {
	ID          string    `json:"id"`
	Target      string    `json:"target"`
	TargetLevel int       `json:"target_level,omitempty"`
	Amount      int       `json:"amount,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

func NewCityView(c *citydomain.City) *CityView {
	if c == nil {
		return nil
	}
	return &CityView{
		ID:        c.ID,
		Name:      c.Name,
		X:         c.X,
		Y:         c.Y,
		Resources: c.Resources,
		Buildings: c.Buildings,
		Research:  c.Research,
		Army:      c.Army,
		Queues: map[string][]QueueItemView{
			string(citydomain.QueueBuilding): newQueueView(c.BuildingQueue),
			string(citydomain.QueueTraining): newQueueView(c.TrainingQueue),
			string(citydomain.QueueResearch): newQueueView(c.ResearchQueue),
		},
	}
}

func newQueueView(items []citydomain.QueueItem) []QueueItemView {
	out := make([]QueueItemView, 0, len(items))
	for _, it := range items {
		out = append(out, QueueItemView{
			ID:          it.ID,
			Target:      it.Target,
			TargetLevel: it.TargetLevel,
			Amount:      it.Amount,
			StartTime:   it.StartTime,
			EndTime:     it.EndTime,
		})
	}
	return out
}

// MissionView 行军任务对客户端的投影。
type MissionView struct {
	ID          string             `json:"id"`
	OriginCity  string             `json:"origin_city"`
	TargetTile  string             `json:"target_tile"`
	Action      string             `json:"action"`
	Army        map[string]int     `json:"army"`
	Resources   citydomain.Amounts `json:"resources"`
	Loot        citydomain.Amounts `json:"loot"`
	Report      map[string]int     `json:"report,omitempty"`
	StartTime   time.Time          `json:"start_time"`
	ArrivalTime time.Time          `json:"arrival_time"`
	ReturnTime  time.Time          `json:"return_time"`
	Status      string             `json:"status"`
}

func NewMissionView(m *worlddomain.WorldMission) *MissionView {
	if m == nil {
		return nil
	}
	return &MissionView{
		ID:          m.ID,
		OriginCity:  m.OriginCityID,
		TargetTile:  m.TargetTileID,
		Action:      string(m.Action),
		Army:        m.Army,
		Resources:   m.Resources,
		Loot:        m.Loot,
		Report:      m.Report,
		StartTime:   m.StartTime,
		ArrivalTime: m.ArrivalTime,
		ReturnTime:  m.ReturnTime,
		Status:      string(m.Status),
	}
}

func NewMissionViews(ms []*worlddomain.WorldMission) []*MissionView {
	out := make([]*MissionView, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewMissionView(m))
	}
	return out
}

// TileView 世界格子对客户端的投影（不透出 NPC 驻军等隐藏信息）。
type TileView struct {
	ID             string `json:"id"`
	X              int    `json:"x"`
	Y              int    `json:"y"`
	Type           string `json:"type"`
	Terrain        string `json:"terrain,omitempty"`
	OwnerID        int    `json:"owner_id,omitempty"`
	CityID         string `json:"city_id,omitempty"`
	ResourceType   string `json:"resource_type,omitempty"`
	ResourceAmount int64  `json:"resource_amount,omitempty"`
	NpcLevel       int    `json:"npc_level,omitempty"`
	Occupied       bool   `json:"occupied,omitempty"`
}

func NewTileViews(tiles []*worlddomain.Tile) []*TileView {
	out := make([]*TileView, 0, len(tiles))
	for _, t := range tiles {
		if t == nil {
			continue
		}
		out = append(out, &TileView{
			ID:             t.ID,
			X:              t.X,
			Y:              t.Y,
			Type:           string(t.Type),
			Terrain:        t.Terrain,
			OwnerID:        t.OwnerID,
			CityID:         t.CityID,
			ResourceType:   t.ResourceType,
			ResourceAmount: t.ResourceAmount,
			NpcLevel:       t.NpcLevel,
			Occupied:       t.ActiveMissionID != "",
		})
	}
	return out
}
