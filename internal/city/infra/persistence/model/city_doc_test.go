package model

import (
	"errors"
	"testing"
	"time"

	"Aethelgard/internal/city/domain"
	"Aethelgard/internal/shared/gameconfig/balance"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func testBalance(t *testing.T) *balance.Config {
	t.Helper()
	cfg, err := balance.NewConfig(
		[]balance.Building{
			{ID: "quarry", Produces: "stone", RatePerLevel: 60, BaseCost: balance.ResourceCost{Stone: 60}},
			{ID: "warehouse", BaseCost: balance.ResourceCost{Stone: 90}},
		},
		[]balance.Unit{
			{ID: "swordsman", Cost: balance.ResourceCost{Food: 30}, TrainTimeS: 45, Speed: 4},
		},
		[]balance.Research{
			{ID: "masonry", Boosts: "stone", BaseCost: balance.ResourceCost{Stone: 120}},
		},
		500,
	)
	if err != nil {
		t.Fatalf("balance.NewConfig err=%v", err)
	}
	return cfg
}

func TestToCity_历史时间格式全部规约(t *testing.T) {
	want := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	cases := []struct {
		name string
		raw  any
	}{
		{"BSON Date", bson.NewDateTimeFromTime(want)},
		{"RFC3339 字符串", "2025-03-01T12:30:00Z"},
		{"unix 毫秒", int64(1740832200000)},
		{"seconds 文档", bson.M{"seconds": int64(1740832200), "nanoseconds": int32(0)}},
		{"seconds 缩写字段", bson.D{{Key: "_seconds", Value: int64(1740832200)}}},
	}
	for _, tc := range cases {
		doc := &CityDoc{
			ID: "c1", OwnerID: 1,
			BuildingQueue: []QueueItemDoc{{
				ID: "b1", Target: "quarry", TargetLevel: 2,
				StartTime: tc.raw, EndTime: tc.raw,
			}},
		}
		c, err := doc.ToCity(testBalance(t))
		if err != nil {
			t.Fatalf("%s: err=%v", tc.name, err)
		}
		it := c.BuildingQueue[0]
		if it.Malformed {
			t.Fatalf("%s: 不应标 Malformed", tc.name)
		}
		if !it.EndTime.Equal(want) {
			t.Fatalf("%s: endTime=%v want=%v", tc.name, it.EndTime, want)
		}
	}
}

func TestToCity_坏时间条目标Malformed不丢弃(t *testing.T) {
	doc := &CityDoc{
		ID: "c1", OwnerID: 1,
		TrainingQueue: []QueueItemDoc{{
			ID: "t1", Target: "swordsman", Amount: 5,
			StartTime: "garbage", EndTime: "also-garbage",
		}},
	}
	c, err := doc.ToCity(testBalance(t))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(c.TrainingQueue) != 1 || !c.TrainingQueue[0].Malformed {
		t.Fatalf("坏时间条目必须保留并标 Malformed, got=%+v", c.TrainingQueue)
	}
}

func TestToCity_未知Key拒绝入库(t *testing.T) {
	cases := []struct {
		name string
		doc  CityDoc
	}{
		{"未知建筑", CityDoc{ID: "c1", Buildings: map[string]int{"ziggurat": 3}}},
		{"未知科技", CityDoc{ID: "c1", Research: map[string]int{"alchemy": 2}}},
		{"未知兵种", CityDoc{ID: "c1", Army: map[string]int{"dragon": 1}}},
	}
	for _, tc := range cases {
		_, err := tc.doc.ToCity(testBalance(t))
		if !errors.Is(err, domain.ErrUnknownKind) {
			t.Fatalf("%s: 期望 ErrUnknownKind, got=%v", tc.name, err)
		}
	}
}

func TestFromCity_往返保持队列与资源(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	c := &domain.City{
		ID: "c1", OwnerID: 9, Name: "Aethelburg",
		Resources:     domain.Amounts{Stone: 120, Wood: 40},
		TickRemainder: domain.Fractions{Stone: 0.5, Food: 0.25},
		Buildings:     map[string]int{"quarry": 2},
		Research:      map[string]int{"masonry": 2},
		Army:          map[string]int{"swordsman": 8},
		ResearchQueue: []domain.QueueItem{{
			ID: "r1", Target: "masonry", TargetLevel: 3,
			StartTime: now, EndTime: now.Add(time.Minute),
		}},
		LastTickAt: now, UpdatedAt: now,
	}

	back, err := FromCity(c).ToCity(testBalance(t))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if back.Resources != c.Resources {
		t.Fatalf("resources=%+v want=%+v", back.Resources, c.Resources)
	}
	if back.TickRemainder != c.TickRemainder {
		t.Fatalf("tick_remainder=%+v want=%+v", back.TickRemainder, c.TickRemainder)
	}
	if len(back.ResearchQueue) != 1 || !back.ResearchQueue[0].EndTime.Equal(now.Add(time.Minute)) {
		t.Fatalf("队列往返丢失, got=%+v", back.ResearchQueue)
	}
	if back.Buildings["quarry"] != 2 || back.Army["swordsman"] != 8 {
		t.Fatalf("等级/兵力往返丢失")
	}
}
