package domain

import (
	"errors"
	"testing"
	"time"

	citydomain "Aethelgard/internal/city/domain"
	"Aethelgard/internal/shared/gameconfig/balance"
)

func testBalance(t *testing.T) *balance.Config {
	t.Helper()
	cfg, err := balance.NewConfig(
		nil,
		[]balance.Unit{
			{ID: "swordsman", Speed: 4, Capacity: 50, Attack: 10, Defense: 8, TrainTimeS: 45},
			{ID: "knight", Speed: 8, Capacity: 20, Attack: 25, Defense: 18, TrainTimeS: 120},
			{ID: "scout", Speed: 16, Capacity: 5, Attack: 1, Defense: 1, TrainTimeS: 20},
		},
		nil,
		500,
	)
	if err != nil {
		t.Fatalf("balance.NewConfig err=%v", err)
	}
	return cfg
}

func originCity() *citydomain.City {
	return &citydomain.City{
		ID: "c1", OwnerID: 7, X: 0, Y: 0,
		Resources: citydomain.Amounts{Stone: 100, Wood: 100, Food: 100, Mana: 100},
		Army:      map[string]int{"swordsman": 20, "knight": 5, "scout": 2},
	}
}

func resourceTile() *Tile {
	return &Tile{ID: "t1", X: 3, Y: 4, Type: TileResource, ResourceType: "wood", ResourceAmount: 5000}
}

func TestPlanMission_去回对称(t *testing.T) {
	now := time.Unix(50_000, 0)
	m, err := PlanMission(testBalance(t), originCity(), resourceTile(), ActionGather,
		map[string]int{"swordsman": 10}, citydomain.Amounts{}, now)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	// 距离 5 格 / 速度 4 格每小时 = 1.25h
	d := m.ArrivalTime.Sub(m.StartTime)
	if d != 75*time.Minute {
		t.Fatalf("march=%v want=75m", d)
	}
	if got := m.ReturnTime.Sub(m.StartTime); got != 2*d {
		t.Fatalf("returnTime 必须等于 start+2×(arrival−start), got=%v", got)
	}
	if m.Status != StatusOutgoing {
		t.Fatalf("status=%v", m.Status)
	}
}

func TestPlanMission_速度取最慢兵种(t *testing.T) {
	now := time.Unix(50_000, 0)
	// knight 8 + scout 16 → 整队 8 格每小时，5 格 = 37.5 分钟
	m, err := PlanMission(testBalance(t), originCity(), &Tile{ID: "t2", X: 3, Y: 4, Type: TileCity, OwnerID: 9},
		ActionSpy, map[string]int{"knight": 1, "scout": 1}, citydomain.Amounts{}, now)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got := m.ArrivalTime.Sub(m.StartTime); got != 2250*time.Second {
		t.Fatalf("march=%v want=37.5m", got)
	}
}

func TestPlanMission_兵力不足优先于其他校验(t *testing.T) {
	_, err := PlanMission(testBalance(t), originCity(), resourceTile(), ActionSendRss,
		map[string]int{"swordsman": 999}, citydomain.Amounts{Wood: 99999}, time.Unix(50_000, 0))
	if !errors.Is(err, citydomain.ErrUnitNotEnough) {
		t.Fatalf("期望先报 ErrUnitNotEnough, got=%v", err)
	}
}

func TestPlanMission_空部队拒绝(t *testing.T) {
	_, err := PlanMission(testBalance(t), originCity(), resourceTile(), ActionGather,
		map[string]int{}, citydomain.Amounts{}, time.Unix(50_000, 0))
	if !errors.Is(err, citydomain.ErrUnitNotEnough) {
		t.Fatalf("got=%v", err)
	}
}

func TestPlanMission_运载量边界(t *testing.T) {
	cfg := testBalance(t)
	city := originCity()
	city.Resources = citydomain.Amounts{Stone: 2000, Wood: 2000, Food: 2000, Mana: 2000}
	target := &Tile{ID: "t2", X: 1, Y: 0, Type: TileCity, OwnerID: 9}
	now := time.Unix(50_000, 0)
	army := map[string]int{"swordsman": 10} // 运载量 500

	// 恰好等于运载量：放行
	if _, err := PlanMission(cfg, city, target, ActionSendRss, army,
		citydomain.Amounts{Wood: 300, Food: 200}, now); err != nil {
		t.Fatalf("总量=运载量应放行, err=%v", err)
	}
	// 超一单位：拒绝
	_, err := PlanMission(cfg, city, target, ActionSendRss, army,
		citydomain.Amounts{Wood: 300, Food: 201}, now)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("期望 ErrCapacityExceeded, got=%v", err)
	}
}

func TestPlanMission_目标兼容性(t *testing.T) {
	cfg := testBalance(t)
	now := time.Unix(50_000, 0)
	army := map[string]int{"swordsman": 5}
	cases := []struct {
		name   string
		action ActionType
		tile   *Tile
		wantOK bool
	}{
		{"采集资源格", ActionGather, resourceTile(), true},
		{"采集城池格拒绝", ActionGather, &Tile{ID: "x", X: 1, Y: 1, Type: TileCity}, false},
		{"采集被占用格拒绝", ActionGather, &Tile{ID: "x", X: 1, Y: 1, Type: TileResource, ActiveMissionID: "m9"}, false},
		{"攻击 npc 营地", ActionAttack, &Tile{ID: "x", X: 1, Y: 1, Type: TileNpcCamp}, true},
		{"攻击空地拒绝", ActionAttack, &Tile{ID: "x", X: 1, Y: 1, Type: TileEmpty}, false},
		{"侦察城池", ActionSpy, &Tile{ID: "x", X: 1, Y: 1, Type: TileCity}, true},
		{"运送到废墟拒绝", ActionSendRss, &Tile{ID: "x", X: 1, Y: 1, Type: TileRuins}, false},
	}
	for _, tc := range cases {
		payload := citydomain.Amounts{}
		if tc.action == ActionSendRss {
			payload = citydomain.Amounts{Wood: 10}
		}
		_, err := PlanMission(cfg, originCity(), tc.tile, tc.action, army, payload, now)
		if tc.wantOK && err != nil {
			t.Fatalf("%s: 期望通过, err=%v", tc.name, err)
		}
		if !tc.wantOK && !errors.Is(err, ErrInvalidTarget) {
			t.Fatalf("%s: 期望 ErrInvalidTarget, got=%v", tc.name, err)
		}
	}
}

func TestClaimGather_独占(t *testing.T) {
	tile := resourceTile()
	if err := tile.ClaimGather("m1"); err != nil {
		t.Fatalf("首次占用应成功, err=%v", err)
	}
	if err := tile.ClaimGather("m2"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("二次占用必须失败, got=%v", err)
	}
	// 非持有者解除无效
	tile.ReleaseGather("m2")
	if tile.ActiveMissionID != "m1" {
		t.Fatalf("非持有任务不得解除占用")
	}
	tile.ReleaseGather("m1")
	if tile.ActiveMissionID != "" {
		t.Fatalf("持有任务解除后应为空")
	}
}

func TestDrainResource_不超库存(t *testing.T) {
	tile := resourceTile()
	if got := tile.DrainResource(800); got != 800 || tile.ResourceAmount != 4200 {
		t.Fatalf("got=%d remain=%d", got, tile.ResourceAmount)
	}
	if got := tile.DrainResource(99999); got != 4200 || tile.ResourceAmount != 0 {
		t.Fatalf("耗尽时取走量以库存为限, got=%d remain=%d", got, tile.ResourceAmount)
	}
	if got := tile.DrainResource(10); got != 0 {
		t.Fatalf("空库存取走量必须为 0")
	}
}
