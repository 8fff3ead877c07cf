package domain

// Kind 资源种类（封闭枚举，未知 key 在存储边界拒绝）。
type Kind string

const (
	Stone Kind = "stone"
	Wood  Kind = "wood"
	Food  Kind = "food"
	Mana  Kind = "mana"
)

// AllKinds 固定遍历顺序，结算结果必须与遍历顺序无关。
func AllKinds() [4]Kind {
	return [4]Kind{Stone, Wood, Food, Mana}
}

func ValidKind(k Kind) bool {
	switch k {
	case Stone, Wood, Food, Mana:
		return true
	}
	return false
}

// Amounts 各资源的持有量/开销（值语义）。
type Amounts struct {
	Stone int64 `json:"stone" bson:"stone"`
	Wood  int64 `json:"wood" bson:"wood"`
	Food  int64 `json:"food" bson:"food"`
	Mana  int64 `json:"mana" bson:"mana"`
}

func (a Amounts) Get(k Kind) int64 {
	switch k {
	case Stone:
		return a.Stone
	case Wood:
		return a.Wood
	case Food:
		return a.Food
	case Mana:
		return a.Mana
	}
	return 0
}

func (a *Amounts) Set(k Kind, v int64) {
	switch k {
	case Stone:
		a.Stone = v
	case Wood:
		a.Wood = v
	case Food:
		a.Food = v
	case Mana:
		a.Mana = v
	}
}

func (a Amounts) Add(b Amounts) Amounts {
	return Amounts{
		Stone: a.Stone + b.Stone,
		Wood:  a.Wood + b.Wood,
		Food:  a.Food + b.Food,
		Mana:  a.Mana + b.Mana,
	}
}

func (a Amounts) Sub(b Amounts) Amounts {
	return Amounts{
		Stone: a.Stone - b.Stone,
		Wood:  a.Wood - b.Wood,
		Food:  a.Food - b.Food,
		Mana:  a.Mana - b.Mana,
	}
}

// Covers 每种资源都不少于 b（可支付判定）。
func (a Amounts) Covers(b Amounts) bool {
	return a.Stone >= b.Stone && a.Wood >= b.Wood && a.Food >= b.Food && a.Mana >= b.Mana
}

// Clamp 各资源夹到 [0, cap]。
func (a Amounts) Clamp(cap Amounts) Amounts {
	out := a
	for _, k := range AllKinds() {
		v := out.Get(k)
		if v < 0 {
			v = 0
		}
		if c := cap.Get(k); v > c {
			v = c
		}
		out.Set(k, v)
	}
	return out
}

func (a Amounts) Total() int64 {
	return a.Stone + a.Wood + a.Food + a.Mana
}

func (a Amounts) IsZero() bool {
	return a == Amounts{}
}

// FirstShortfall 返回第一个不足的资源种类及缺口（错误提示用）。
func (a Amounts) FirstShortfall(cost Amounts) (Kind, int64, bool) {
	for _, k := range AllKinds() {
		if have, need := a.Get(k), cost.Get(k); have < need {
			return k, need - have, true
		}
	}
	return "", 0, false
}

// Rates 各资源的每小时产量。
type Rates struct {
	Stone float64
	Wood  float64
	Food  float64
	Mana  float64
}

func (r Rates) Get(k Kind) float64 {
	switch k {
	case Stone:
		return r.Stone
	case Wood:
		return r.Wood
	case Food:
		return r.Food
	case Mana:
		return r.Mana
	}
	return 0
}

func (r *Rates) Addf(k Kind, v float64) {
	switch k {
	case Stone:
		r.Stone += v
	case Wood:
		r.Wood += v
	case Food:
		r.Food += v
	case Mana:
		r.Mana += v
	}
}
