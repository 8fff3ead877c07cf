package tick

import (
	"context"
	"errors"
	"testing"
	"time"

	citydomain "Aethelgard/internal/city/domain"
	"Aethelgard/internal/shared/gameconfig/balance"
	"Aethelgard/internal/world/domain"
)

type fakeCityRepo struct {
	cities  map[string]*citydomain.City
	saveErr error
}

func (r *fakeCityRepo) LoadCity(ctx context.Context, id string) (*citydomain.City, error) {
	c, ok := r.cities[id]
	if !ok {
		return nil, citydomain.ErrCityNotFound.WithData("city_id", id)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCityRepo) LoadByOwner(ctx context.Context, ownerID int) ([]*citydomain.City, error) {
	return nil, nil
}

func (r *fakeCityRepo) LoadAll(ctx context.Context) ([]*citydomain.City, error) {
	var out []*citydomain.City
	for _, c := range r.cities {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCityRepo) Save(ctx context.Context, c *citydomain.City) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *c
	r.cities[c.ID] = &cp
	return nil
}

func (r *fakeCityRepo) SaveAll(ctx context.Context, cities []*citydomain.City) error {
	for _, c := range cities {
		if err := r.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

type fakeTileRepo struct {
	tiles   map[string]*domain.Tile
	loadErr error
}

func (r *fakeTileRepo) LoadTile(ctx context.Context, id string) (*domain.Tile, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	t, ok := r.tiles[id]
	if !ok {
		return nil, domain.ErrTileNotFound.WithData("tile_id", id)
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTileRepo) LoadChunk(ctx context.Context, chunkX, chunkY, chunkSize int) ([]*domain.Tile, error) {
	return nil, nil
}

func (r *fakeTileRepo) Save(ctx context.Context, t *domain.Tile) error {
	cp := *t
	r.tiles[t.ID] = &cp
	return nil
}

type fakeMissionRepo struct {
	missions map[string]*domain.WorldMission
}

func (r *fakeMissionRepo) Insert(ctx context.Context, m *domain.WorldMission) error {
	cp := *m
	r.missions[m.ID] = &cp
	return nil
}

func (r *fakeMissionRepo) LoadMission(ctx context.Context, id string) (*domain.WorldMission, error) {
	m, ok := r.missions[id]
	if !ok {
		return nil, domain.ErrMissionNotFound.WithData("mission_id", id)
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMissionRepo) LoadByOwner(ctx context.Context, ownerID int) ([]*domain.WorldMission, error) {
	return nil, nil
}

func (r *fakeMissionRepo) LoadDueArrivals(ctx context.Context, now time.Time) ([]*domain.WorldMission, error) {
	var out []*domain.WorldMission
	for _, m := range r.missions {
		if m.Status == domain.StatusOutgoing && !m.ArrivalTime.After(now) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMissionRepo) LoadDueReturns(ctx context.Context, now time.Time) ([]*domain.WorldMission, error) {
	var out []*domain.WorldMission
	for _, m := range r.missions {
		if m.Status == domain.StatusReturning && !m.ReturnTime.After(now) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMissionRepo) Save(ctx context.Context, m *domain.WorldMission) error {
	cp := *m
	r.missions[m.ID] = &cp
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testBalance(t *testing.T) *balance.Config {
	t.Helper()
	cfg, err := balance.NewConfig(
		[]balance.Building{
			{ID: "farm", Produces: "food", RatePerLevel: 1000},
			{ID: "quarry", Produces: "stone", RatePerLevel: 60},
			{ID: "warehouse"},
		},
		[]balance.Unit{
			{ID: "swordsman", Speed: 4, Capacity: 50, Attack: 10, Defense: 8, TrainTimeS: 45},
			{ID: "knight", Speed: 8, Capacity: 20, Attack: 25, Defense: 18, TrainTimeS: 120},
		},
		nil,
		5000,
	)
	if err != nil {
		t.Fatalf("balance.NewConfig err=%v", err)
	}
	return cfg
}

func TestRunGlobalTick_农场30分钟场景(t *testing.T) {
	now := time.Unix(100_000, 0)
	repo := &fakeCityRepo{cities: map[string]*citydomain.City{
		"c1": {
			ID: "c1", OwnerID: 1,
			Resources:  citydomain.Amounts{Food: 100},
			Buildings:  map[string]int{"farm": 2, "warehouse": 1},
			LastTickAt: now.Add(-1800 * time.Second),
		},
		// 刚结算过的城：elapsed = 0，跳过
		"c2": {
			ID: "c2", OwnerID: 2,
			Resources:  citydomain.Amounts{Food: 100},
			Buildings:  map[string]int{"farm": 2, "warehouse": 1},
			LastTickAt: now,
		},
	}}
	c := NewCoordinator(repo, passthroughTx{}, testBalance(t), nil)
	c.now = func() time.Time { return now }

	advanced, err := c.RunGlobalTick(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if advanced != 1 {
		t.Fatalf("只应推进 1 座城, got=%d", advanced)
	}
	// 2 × 1000/h × 0.5h = 1000
	if got := repo.cities["c1"].Resources.Food; got != 1100 {
		t.Fatalf("food=%d want=1100", got)
	}
	if got := repo.cities["c2"].Resources.Food; got != 100 {
		t.Fatalf("elapsed=0 的城不得变化, food=%d", got)
	}
}

func TestRunGlobalTick_周期路径同样夹容量(t *testing.T) {
	now := time.Unix(100_000, 0)
	repo := &fakeCityRepo{cities: map[string]*citydomain.City{
		"c1": {
			ID: "c1", OwnerID: 1,
			Resources:  citydomain.Amounts{Food: 4900},
			Buildings:  map[string]int{"farm": 2, "warehouse": 1},
			LastTickAt: now.Add(-1800 * time.Second),
		},
	}}
	c := NewCoordinator(repo, passthroughTx{}, testBalance(t), nil)
	c.now = func() time.Time { return now }

	if _, err := c.RunGlobalTick(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	if got := repo.cities["c1"].Resources.Food; got != 5000 {
		t.Fatalf("周期路径必须夹到仓库容量, food=%d", got)
	}
}

func TestRunGlobalTick_保存失败整批放弃(t *testing.T) {
	now := time.Unix(100_000, 0)
	repo := &fakeCityRepo{
		cities: map[string]*citydomain.City{
			"c1": {
				ID: "c1", OwnerID: 1,
				Resources:  citydomain.Amounts{Food: 100},
				Buildings:  map[string]int{"farm": 1, "warehouse": 1},
				LastTickAt: now.Add(-time.Hour),
			},
		},
		saveErr: errors.New("write failed"),
	}
	c := NewCoordinator(repo, passthroughTx{}, testBalance(t), nil)
	c.now = func() time.Time { return now }

	advanced, err := c.RunGlobalTick(context.Background())
	if err == nil || advanced != 0 {
		t.Fatalf("保存失败必须整批报错, advanced=%d err=%v", advanced, err)
	}
}

func newResolverFixture(t *testing.T, now time.Time) (*Resolver, *fakeCityRepo, *fakeTileRepo, *fakeMissionRepo) {
	cities := &fakeCityRepo{cities: map[string]*citydomain.City{
		"c1": {
			ID: "c1", OwnerID: 7,
			Resources:  citydomain.Amounts{Stone: 100, Wood: 100, Food: 100, Mana: 100},
			Buildings:  map[string]int{"warehouse": 1},
			Army:       map[string]int{"swordsman": 5},
			LastTickAt: now,
		},
		"c2": {
			ID: "c2", OwnerID: 9,
			Resources:  citydomain.Amounts{Stone: 1000, Wood: 1000, Food: 1000, Mana: 1000},
			Buildings:  map[string]int{"warehouse": 1},
			Army:       map[string]int{"swordsman": 2},
			LastTickAt: now,
		},
	}}
	tiles := &fakeTileRepo{tiles: map[string]*domain.Tile{
		"rss1":  {ID: "rss1", X: 3, Y: 4, Type: domain.TileResource, ResourceType: "wood", ResourceAmount: 400},
		"city2": {ID: "city2", X: 6, Y: 8, Type: domain.TileCity, OwnerID: 9, CityID: "c2"},
	}}
	missions := &fakeMissionRepo{missions: map[string]*domain.WorldMission{}}
	r := NewResolver(cities, tiles, missions, passthroughTx{}, testBalance(t), nil)
	r.now = func() time.Time { return now }
	return r, cities, tiles, missions
}

func TestResolveDue_采集到达装载受库存约束(t *testing.T) {
	now := time.Unix(100_000, 0)
	r, _, tiles, missions := newResolverFixture(t, now)
	// 10 个 swordsman 运载量 500，格子库存只有 400
	missions.missions["m1"] = &domain.WorldMission{
		ID: "m1", OwnerID: 7, OriginCityID: "c1", TargetTileID: "rss1",
		Action: domain.ActionGather, Army: map[string]int{"swordsman": 10},
		StartTime:   now.Add(-2 * time.Hour),
		ArrivalTime: now.Add(-time.Hour),
		ReturnTime:  now.Add(time.Hour),
		Status:      domain.StatusOutgoing,
	}

	if got := r.ResolveDue(context.Background()); got != 1 {
		t.Fatalf("resolved=%d", got)
	}
	m := missions.missions["m1"]
	if m.Status != domain.StatusReturning {
		t.Fatalf("status=%v", m.Status)
	}
	if m.Loot.Wood != 400 {
		t.Fatalf("装载量以库存为限, loot=%+v", m.Loot)
	}
	if tiles.tiles["rss1"].ResourceAmount != 0 {
		t.Fatalf("格子库存必须同步扣减, got=%d", tiles.tiles["rss1"].ResourceAmount)
	}

	// 重复跑一轮：任务已是 returning 且未到回城时刻，不得重复装载
	if got := r.ResolveDue(context.Background()); got != 0 {
		t.Fatalf("重复结算必须无效果, resolved=%d", got)
	}
}

func TestResolveDue_回城入库并解除占用(t *testing.T) {
	now := time.Unix(100_000, 0)
	r, cities, tiles, missions := newResolverFixture(t, now)
	tiles.tiles["rss1"].ActiveMissionID = "m1"
	missions.missions["m1"] = &domain.WorldMission{
		ID: "m1", OwnerID: 7, OriginCityID: "c1", TargetTileID: "rss1",
		Action: domain.ActionGather, Army: map[string]int{"swordsman": 10},
		Loot:        citydomain.Amounts{Wood: 400},
		StartTime:   now.Add(-3 * time.Hour),
		ArrivalTime: now.Add(-2 * time.Hour),
		ReturnTime:  now.Add(-time.Minute),
		Status:      domain.StatusReturning,
	}

	if got := r.ResolveDue(context.Background()); got != 1 {
		t.Fatalf("resolved=%d", got)
	}
	c := cities.cities["c1"]
	if c.Army["swordsman"] != 15 {
		t.Fatalf("兵力必须归还, got=%d", c.Army["swordsman"])
	}
	if c.Resources.Wood != 500 {
		t.Fatalf("携带物必须入库, wood=%d", c.Resources.Wood)
	}
	if tiles.tiles["rss1"].ActiveMissionID != "" {
		t.Fatalf("采集占用必须解除")
	}
	if missions.missions["m1"].Status != domain.StatusCompleted {
		t.Fatalf("status=%v", missions.missions["m1"].Status)
	}
}

func TestResolveDue_回城时格子读取失败应中止留待重试(t *testing.T) {
	now := time.Unix(100_000, 0)
	r, _, tiles, missions := newResolverFixture(t, now)
	tiles.tiles["rss1"].ActiveMissionID = "m1"
	missions.missions["m1"] = &domain.WorldMission{
		ID: "m1", OwnerID: 7, OriginCityID: "c1", TargetTileID: "rss1",
		Action: domain.ActionGather, Army: map[string]int{"swordsman": 10},
		Loot:        citydomain.Amounts{Wood: 400},
		StartTime:   now.Add(-3 * time.Hour),
		ArrivalTime: now.Add(-2 * time.Hour),
		ReturnTime:  now.Add(-time.Minute),
		Status:      domain.StatusReturning,
	}

	tiles.loadErr = errors.New("connection reset by peer")
	if got := r.ResolveDue(context.Background()); got != 0 {
		t.Fatalf("格子读取失败不得计入结算, resolved=%d", got)
	}
	if missions.missions["m1"].Status != domain.StatusReturning {
		t.Fatalf("读取失败时任务不得终结, status=%v", missions.missions["m1"].Status)
	}
	if tiles.tiles["rss1"].ActiveMissionID != "m1" {
		t.Fatalf("占用必须保留到成功解除为止")
	}

	// 故障恢复后下一轮补结算，占用解除、任务终结
	tiles.loadErr = nil
	if got := r.ResolveDue(context.Background()); got != 1 {
		t.Fatalf("恢复后应补结算, resolved=%d", got)
	}
	if missions.missions["m1"].Status != domain.StatusCompleted {
		t.Fatalf("status=%v", missions.missions["m1"].Status)
	}
	if tiles.tiles["rss1"].ActiveMissionID != "" {
		t.Fatalf("采集占用必须解除")
	}
}

func TestResolveDue_回城时格子已消失仍可终结(t *testing.T) {
	now := time.Unix(100_000, 0)
	r, cities, tiles, missions := newResolverFixture(t, now)
	delete(tiles.tiles, "rss1")
	missions.missions["m1"] = &domain.WorldMission{
		ID: "m1", OwnerID: 7, OriginCityID: "c1", TargetTileID: "rss1",
		Action: domain.ActionGather, Army: map[string]int{"swordsman": 10},
		StartTime:   now.Add(-3 * time.Hour),
		ArrivalTime: now.Add(-2 * time.Hour),
		ReturnTime:  now.Add(-time.Minute),
		Status:      domain.StatusReturning,
	}

	if got := r.ResolveDue(context.Background()); got != 1 {
		t.Fatalf("resolved=%d", got)
	}
	if missions.missions["m1"].Status != domain.StatusCompleted {
		t.Fatalf("status=%v", missions.missions["m1"].Status)
	}
	if cities.cities["c1"].Army["swordsman"] != 15 {
		t.Fatalf("兵力必须归还, got=%d", cities.cities["c1"].Army["swordsman"])
	}
}

func TestResolveDue_攻城胜利掠夺受运载量约束(t *testing.T) {
	now := time.Unix(100_000, 0)
	r, cities, _, missions := newResolverFixture(t, now)
	// 攻方 10×10=100 对守方 2×8=16：攻方胜，减员一成剩 9，运载量 450
	missions.missions["m1"] = &domain.WorldMission{
		ID: "m1", OwnerID: 7, OriginCityID: "c1", TargetTileID: "city2",
		Action: domain.ActionAttack, Army: map[string]int{"swordsman": 10},
		StartTime:   now.Add(-2 * time.Hour),
		ArrivalTime: now.Add(-time.Minute),
		ReturnTime:  now.Add(time.Hour),
		Status:      domain.StatusOutgoing,
	}

	if got := r.ResolveDue(context.Background()); got != 1 {
		t.Fatalf("resolved=%d", got)
	}
	m := missions.missions["m1"]
	if m.Army["swordsman"] != 9 {
		t.Fatalf("胜方减员一成, got=%d", m.Army["swordsman"])
	}
	defender := cities.cities["c2"]
	if len(defender.Army) != 0 {
		t.Fatalf("败方守军全灭, got=%+v", defender.Army)
	}
	// 三成上限 = 每种 300，共 1200 > 运载量 450 → 按比例缩到总量 ≤ 450
	if total := m.Loot.Total(); total > 450 || total == 0 {
		t.Fatalf("掠夺总量必须在 (0, 运载量] 内, got=%d", total)
	}
	if defender.Resources.Add(m.Loot).Stone != 1000 {
		t.Fatalf("守方损失必须等于掠夺量")
	}
}

func TestResolveDue_攻方战败全灭(t *testing.T) {
	now := time.Unix(100_000, 0)
	r, cities, _, missions := newResolverFixture(t, now)
	// 攻方 1×10=10 对守方 2×8=16：攻方败
	missions.missions["m1"] = &domain.WorldMission{
		ID: "m1", OwnerID: 7, OriginCityID: "c1", TargetTileID: "city2",
		Action: domain.ActionAttack, Army: map[string]int{"swordsman": 1},
		StartTime:   now.Add(-2 * time.Hour),
		ArrivalTime: now.Add(-time.Minute),
		ReturnTime:  now.Add(time.Hour),
		Status:      domain.StatusOutgoing,
	}

	if got := r.ResolveDue(context.Background()); got != 1 {
		t.Fatalf("resolved=%d", got)
	}
	m := missions.missions["m1"]
	if len(m.Army) != 0 || !m.Loot.IsZero() {
		t.Fatalf("败方全灭且无掠夺, army=%+v loot=%+v", m.Army, m.Loot)
	}
	if got := cities.cities["c2"].Army["swordsman"]; got != 1 {
		t.Fatalf("胜方守军减员一成（2→1）, got=%d", got)
	}
}

func TestResolveDue_运送到达收货夹容量(t *testing.T) {
	now := time.Unix(100_000, 0)
	r, cities, _, missions := newResolverFixture(t, now)
	// 收货城 warehouse=1 容量 5000，wood 已有 1000
	missions.missions["m1"] = &domain.WorldMission{
		ID: "m1", OwnerID: 7, OriginCityID: "c1", TargetTileID: "city2",
		Action: domain.ActionSendRss, Army: map[string]int{"swordsman": 100},
		Resources:   citydomain.Amounts{Wood: 4500},
		StartTime:   now.Add(-2 * time.Hour),
		ArrivalTime: now.Add(-time.Minute),
		ReturnTime:  now.Add(time.Hour),
		Status:      domain.StatusOutgoing,
	}

	if got := r.ResolveDue(context.Background()); got != 1 {
		t.Fatalf("resolved=%d", got)
	}
	if got := cities.cities["c2"].Resources.Wood; got != 5000 {
		t.Fatalf("收货必须夹到容量, wood=%d", got)
	}
	if !missions.missions["m1"].Resources.IsZero() {
		t.Fatalf("交付后任务不再携带资源")
	}
}

func TestResolveDue_侦察生成守军报告(t *testing.T) {
	now := time.Unix(100_000, 0)
	r, _, _, missions := newResolverFixture(t, now)
	missions.missions["m1"] = &domain.WorldMission{
		ID: "m1", OwnerID: 7, OriginCityID: "c1", TargetTileID: "city2",
		Action: domain.ActionSpy, Army: map[string]int{"swordsman": 1},
		StartTime:   now.Add(-2 * time.Hour),
		ArrivalTime: now.Add(-time.Minute),
		ReturnTime:  now.Add(time.Hour),
		Status:      domain.StatusOutgoing,
	}

	if got := r.ResolveDue(context.Background()); got != 1 {
		t.Fatalf("resolved=%d", got)
	}
	if got := missions.missions["m1"].Report["swordsman"]; got != 2 {
		t.Fatalf("报告应包含守军数量, got=%d", got)
	}
}
