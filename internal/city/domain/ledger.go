package domain

import (
	"math"
	"time"
)

// Fractions 每种资源不足 1 单位的累计尾数（0 <= v < 1）。
// 结算间隔短于产出 1 单位所需时间时，尾数跨结算保留，避免整数截断吞掉产量。
type Fractions struct {
	Stone float64
	Wood  float64
	Food  float64
	Mana  float64
}

func (f Fractions) Get(k Kind) float64 {
	switch k {
	case Stone:
		return f.Stone
	case Wood:
		return f.Wood
	case Food:
		return f.Food
	case Mana:
		return f.Mana
	}
	return 0
}

func (f *Fractions) Set(k Kind, v float64) {
	switch k {
	case Stone:
		f.Stone = v
	case Wood:
		f.Wood = v
	case Food:
		f.Food = v
	case Mana:
		f.Mana = v
	}
}

// fracEpsilon 吸收浮点累加误差：大量次结算的尾数之和与一次性结算
// 只差在最后几个 ulp，取整前加上 epsilon 让两者落在同一个整数。
const fracEpsilon = 1e-9

// Accrue 资源随时间线性增长并夹到仓库容量：
//
//	exact[k] = rem[k] + perHour[k] × elapsed/1h
//	new[k]   = min(cur[k] + floor(exact[k]), capacity[k])
//
// 整数之外的部分作为尾数返回，调用方存回 City.TickRemainder 供下次结算续上。
// 夹到容量上限时该资源的尾数清零（仓库满时不暗中攒产量）。
//
// elapsed <= 0 时原样返回（时钟回拨、同一秒内重复调用都按 no-op 处理）。
//
// 调用方必须把 lastTickAt = now、新资源值与新尾数放在同一事务里持久化，
// 否则重试会产生重复累计或欠产。
func Accrue(cur Amounts, perHour Rates, capacity Amounts, elapsed time.Duration, rem Fractions) (Amounts, Fractions) {
	if elapsed <= 0 {
		return cur, rem
	}

	hours := elapsed.Hours()
	out := cur
	outRem := rem
	for _, k := range AllKinds() {
		exact := rem.Get(k) + perHour.Get(k)*hours
		whole := math.Floor(exact + fracEpsilon)
		if whole < 0 {
			whole = 0
		}
		v := out.Get(k) + int64(whole)
		frac := exact - whole
		if frac < 0 {
			frac = 0
		}
		if c := capacity.Get(k); v >= c {
			v = c
			frac = 0
		}
		if v < 0 {
			v = 0
		}
		out.Set(k, v)
		outRem.Set(k, frac)
	}
	return out, outRem
}
