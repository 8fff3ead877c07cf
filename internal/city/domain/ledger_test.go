package domain

import (
	"testing"
	"time"
)

func TestAccrue_应按速率线性增长(t *testing.T) {
	cur := Amounts{Stone: 100, Wood: 50}
	perHour := Rates{Stone: 60, Wood: 120}
	capacity := Amounts{Stone: 10000, Wood: 10000, Food: 10000, Mana: 10000}

	got, _ := Accrue(cur, perHour, capacity, 30*time.Minute, Fractions{})
	if got.Stone != 130 {
		t.Fatalf("期望 stone=130, got=%d", got.Stone)
	}
	if got.Wood != 110 {
		t.Fatalf("期望 wood=110, got=%d", got.Wood)
	}
	if got.Food != 0 || got.Mana != 0 {
		t.Fatalf("无产量的资源不应变化, got=%+v", got)
	}
}

func TestAccrue_必须夹到容量上限(t *testing.T) {
	cur := Amounts{Stone: 480}
	perHour := Rates{Stone: 600}
	capacity := Amounts{Stone: 500, Wood: 500, Food: 500, Mana: 500}

	got, rem := Accrue(cur, perHour, capacity, time.Hour, Fractions{})
	if got.Stone != 500 {
		t.Fatalf("期望夹到容量 500, got=%d", got.Stone)
	}
	if rem.Stone != 0 {
		t.Fatalf("仓库满后不应暗攒尾数, rem=%v", rem.Stone)
	}
}

func TestAccrue_elapsed非正数时应为noop(t *testing.T) {
	cur := Amounts{Stone: 100, Wood: 100, Food: 100, Mana: 100}
	perHour := Rates{Stone: 60, Wood: 60, Food: 60, Mana: 60}
	capacity := Amounts{Stone: 500, Wood: 500, Food: 500, Mana: 500}
	rem := Fractions{Stone: 0.25}

	for _, elapsed := range []time.Duration{0, -time.Second, -time.Hour} {
		got, gotRem := Accrue(cur, perHour, capacity, elapsed, rem)
		if got != cur {
			t.Fatalf("elapsed=%v 应原样返回, got=%+v", elapsed, got)
		}
		if gotRem != rem {
			t.Fatalf("elapsed=%v 尾数应原样返回, got=%+v", elapsed, gotRem)
		}
	}
}

func TestAccrue_非负速率下单调不减(t *testing.T) {
	cur := Amounts{Stone: 1, Wood: 499, Food: 0, Mana: 250}
	perHour := Rates{Stone: 0, Wood: 3, Food: 1000, Mana: 0.5}
	capacity := Amounts{Stone: 500, Wood: 500, Food: 500, Mana: 500}

	for _, elapsed := range []time.Duration{time.Second, time.Minute, time.Hour, 48 * time.Hour} {
		got, rem := Accrue(cur, perHour, capacity, elapsed, Fractions{})
		for _, k := range AllKinds() {
			if got.Get(k) < cur.Get(k) {
				t.Fatalf("k=%s elapsed=%v: 结果 %d 小于初值 %d", k, elapsed, got.Get(k), cur.Get(k))
			}
			if got.Get(k) > capacity.Get(k) {
				t.Fatalf("k=%s elapsed=%v: 结果 %d 超过容量 %d", k, elapsed, got.Get(k), capacity.Get(k))
			}
			if f := rem.Get(k); f < 0 || f >= 1 {
				t.Fatalf("k=%s elapsed=%v: 尾数 %v 越界", k, elapsed, f)
			}
		}
	}
}

// 短间隔高频结算与一次性结算必须产出同样多的资源：
// 速率 59/小时、每分钟结算一次，尾数不续上的话每次截断都是 0。
func TestAccrue_高频结算尾数续上不欠产(t *testing.T) {
	perHour := Rates{Stone: 59}
	capacity := Amounts{Stone: 99999, Wood: 99999, Food: 99999, Mana: 99999}

	oneShot, _ := Accrue(Amounts{}, perHour, capacity, time.Hour, Fractions{})

	cur, rem := Amounts{}, Fractions{}
	for i := 0; i < 60; i++ {
		cur, rem = Accrue(cur, perHour, capacity, time.Minute, rem)
	}
	if cur.Stone != oneShot.Stone {
		t.Fatalf("60 次 1 分钟结算=%d, 1 次 1 小时结算=%d, 应相等", cur.Stone, oneShot.Stone)
	}
	if cur.Stone != 59 {
		t.Fatalf("期望 stone=59, got=%d", cur.Stone)
	}
}

// 规格场景：farm=2 级、1000/小时/级、停更 30 分钟 → food +1000。
func TestAccrue_半小时两级农场应产1000(t *testing.T) {
	cur := Amounts{Food: 0}
	perHour := Rates{Food: 2 * 1000}
	capacity := Amounts{Stone: 99999, Wood: 99999, Food: 99999, Mana: 99999}

	got, _ := Accrue(cur, perHour, capacity, 1800*time.Second, Fractions{})
	if got.Food != 1000 {
		t.Fatalf("期望 food=1000, got=%d", got.Food)
	}
}
