package model

import (
	"time"

	citydomain "Aethelgard/internal/city/domain"
	"Aethelgard/internal/world/domain"
)

// TileDoc 是 tiles 集合里的持久化形态。格子由外部播种，这里只读写既有文档。
type TileDoc struct {
	ID      string `bson:"_id"`
	X       int    `bson:"x"`
	Y       int    `bson:"y"`
	Type    string `bson:"type"`
	Terrain string `bson:"terrain,omitempty"`
	Zone    string `bson:"zone,omitempty"`

	OwnerID int    `bson:"owner_id,omitempty"`
	CityID  string `bson:"city_id,omitempty"`

	ResourceType   string `bson:"resource_type,omitempty"`
	ResourceAmount int64  `bson:"resource_amount,omitempty"`

	NpcLevel  int            `bson:"npc_level,omitempty"`
	NpcTroops map[string]int `bson:"npc_troops,omitempty"`

	ActiveMissionID string `bson:"active_mission_id,omitempty"`
}

func FromTile(t *domain.Tile) *TileDoc {
	return &TileDoc{
		ID:              t.ID,
		X:               t.X,
		Y:               t.Y,
		Type:            string(t.Type),
		Terrain:         t.Terrain,
		Zone:            t.Zone,
		OwnerID:         t.OwnerID,
		CityID:          t.CityID,
		ResourceType:    t.ResourceType,
		ResourceAmount:  t.ResourceAmount,
		NpcLevel:        t.NpcLevel,
		NpcTroops:       t.NpcTroops,
		ActiveMissionID: t.ActiveMissionID,
	}
}

func (d *TileDoc) ToTile() *domain.Tile {
	return &domain.Tile{
		ID:              d.ID,
		X:               d.X,
		Y:               d.Y,
		Type:            domain.TileType(d.Type),
		Terrain:         d.Terrain,
		Zone:            d.Zone,
		OwnerID:         d.OwnerID,
		CityID:          d.CityID,
		ResourceType:    d.ResourceType,
		ResourceAmount:  d.ResourceAmount,
		NpcLevel:        d.NpcLevel,
		NpcTroops:       d.NpcTroops,
		ActiveMissionID: d.ActiveMissionID,
	}
}

// MissionDoc 是 missions 集合里的持久化形态。
// 任务记录由本服务创建，时间字段没有历史包袱，直接用 BSON Date。
type MissionDoc struct {
	ID            string `bson:"_id"`
	OwnerID       int    `bson:"owner_id"`
	OriginCityID  string `bson:"origin_city_id"`
	OriginX       int    `bson:"origin_x"`
	OriginY       int    `bson:"origin_y"`
	TargetTileID  string `bson:"target_tile_id"`
	TargetX       int    `bson:"target_x"`
	TargetY       int    `bson:"target_y"`
	TargetOwnerID int    `bson:"target_owner_id,omitempty"`
	Action        string `bson:"action"`

	Army      map[string]int     `bson:"army"`
	Resources citydomain.Amounts `bson:"resources,omitempty"`
	Loot      citydomain.Amounts `bson:"loot,omitempty"`
	Report    map[string]int     `bson:"report,omitempty"`

	StartTime   time.Time `bson:"start_time"`
	ArrivalTime time.Time `bson:"arrival_time"`
	ReturnTime  time.Time `bson:"return_time"`
	Status      string    `bson:"status"`
}

func FromMission(m *domain.WorldMission) *MissionDoc {
	return &MissionDoc{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		OriginCityID:  m.OriginCityID,
		OriginX:       m.OriginX,
		OriginY:       m.OriginY,
		TargetTileID:  m.TargetTileID,
		TargetX:       m.TargetX,
		TargetY:       m.TargetY,
		TargetOwnerID: m.TargetOwnerID,
		Action:        string(m.Action),
		Army:          m.Army,
		Resources:     m.Resources,
		Loot:          m.Loot,
		Report:        m.Report,
		StartTime:     m.StartTime.UTC(),
		ArrivalTime:   m.ArrivalTime.UTC(),
		ReturnTime:    m.ReturnTime.UTC(),
		Status:        string(m.Status),
	}
}

func (d *MissionDoc) ToMission() *domain.WorldMission {
	return &domain.WorldMission{
		ID:            d.ID,
		OwnerID:       d.OwnerID,
		OriginCityID:  d.OriginCityID,
		OriginX:       d.OriginX,
		OriginY:       d.OriginY,
		TargetTileID:  d.TargetTileID,
		TargetX:       d.TargetX,
		TargetY:       d.TargetY,
		TargetOwnerID: d.TargetOwnerID,
		Action:        domain.ActionType(d.Action),
		Army:          d.Army,
		Resources:     d.Resources,
		Loot:          d.Loot,
		Report:        d.Report,
		StartTime:     d.StartTime,
		ArrivalTime:   d.ArrivalTime,
		ReturnTime:    d.ReturnTime,
		Status:        domain.MissionStatus(d.Status),
	}
}
