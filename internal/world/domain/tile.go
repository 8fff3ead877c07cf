package domain

// TileType 世界格子类型（封闭枚举）。
type TileType string

const (
	TileEmpty    TileType = "empty"
	TileCity     TileType = "city"
	TileResource TileType = "resource"
	TileNpcCamp  TileType = "npc_camp"
	TileRuins    TileType = "ruins"
)

func ValidTileType(t TileType) bool {
	switch t {
	case TileEmpty, TileCity, TileResource, TileNpcCamp, TileRuins:
		return true
	}
	return false
}

// Tile 世界网格的一个格子。
// 不变量：resource 类型的格子同一时刻至多一个进行中的采集任务（ActiveMissionID）。
type Tile struct {
	ID      string
	X       int
	Y       int
	Type    TileType
	Terrain string
	Zone    string

	// OwnerID / CityID 仅 city 类型格子有值（CityID 反向指向落地的城池）。
	OwnerID int
	CityID  string

	// ResourceType / ResourceAmount 仅 resource 类型格子有值。
	ResourceType   string
	ResourceAmount int64

	// NpcLevel / NpcTroops 仅 npc_camp 类型格子有值。
	NpcLevel  int
	NpcTroops map[string]int

	ActiveMissionID string
}

// ClaimGather 给格子挂上采集任务标记；已被占用则失败。
// 检查和置位必须在同一个事务里完成，这里只做内存判定。
func (t *Tile) ClaimGather(missionID string) error {
	if t.Type != TileResource {
		return ErrInvalidTarget.WithData("tile_id", t.ID).WithData("type", string(t.Type))
	}
	if t.ActiveMissionID != "" {
		return ErrInvalidTarget.
			WithData("tile_id", t.ID).
			WithData("active_mission_id", t.ActiveMissionID)
	}
	t.ActiveMissionID = missionID
	return nil
}

// ReleaseGather 采集回城后解除占用。missionID 不匹配时不动（防止误清别人的标记）。
func (t *Tile) ReleaseGather(missionID string) {
	if t.ActiveMissionID == missionID {
		t.ActiveMissionID = ""
	}
}

// DrainResource 从格子库存里取走至多 want 的资源，返回实际取走量。
func (t *Tile) DrainResource(want int64) int64 {
	if want <= 0 || t.ResourceAmount <= 0 {
		return 0
	}
	got := want
	if got > t.ResourceAmount {
		got = t.ResourceAmount
	}
	t.ResourceAmount -= got
	return got
}
