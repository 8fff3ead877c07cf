package domain

import (
	"fmt"
	"time"
)

// QueueKind 三类定时队列。
type QueueKind string

const (
	QueueBuilding QueueKind = "building"
	QueueTraining QueueKind = "training"
	QueueResearch QueueKind = "research"
)

// QueueItem 一条待完成的定时工作。
// 不变量：EndTime > StartTime；完成与否只由 now >= EndTime 决定，没有中间状态。
type QueueItem struct {
	ID          string
	Target      string // 建筑/兵种/科技 id
	TargetLevel int    // building/research：完成后的等级
	Amount      int    // training：训练数量
	StartTime   time.Time
	EndTime     time.Time
	// Malformed 由存储边界置位：历史数据的时间字段无法解析。
	// 这类条目永远按“未完成”处理并告警，绝不允许被误判为已完成。
	Malformed bool
}

// queue 返回指定类型队列的指针（供追加/替换）。
func (c *City) queue(kind QueueKind) *[]QueueItem {
	switch kind {
	case QueueBuilding:
		return &c.BuildingQueue
	case QueueTraining:
		return &c.TrainingQueue
	case QueueResearch:
		return &c.ResearchQueue
	}
	return nil
}

// QueueLen 指定类型队列当前条目数。
func (c *City) QueueLen(kind QueueKind) int {
	q := c.queue(kind)
	if q == nil {
		return 0
	}
	return len(*q)
}

// Enqueue 入列：
//  1. 同类队列空位检查（slots 为并发上限，默认 1 → 同类活动串行）
//  2. 可支付检查；失败时资源保持原样
//  3. 原子扣费 + 追加条目（StartTime=now, EndTime=now+duration）
//
// 条目 id 由 类型:目标:开始毫秒 派生，避免同城重复。
func (c *City) Enqueue(kind QueueKind, target string, targetLevel, amount int, cost Amounts, duration time.Duration, slots int, now time.Time) (*QueueItem, error) {
	q := c.queue(kind)
	if q == nil {
		return nil, ErrUnknownKind.WithData("queue", string(kind))
	}
	if slots < 1 {
		slots = 1
	}
	if len(*q) >= slots {
		return nil, ErrQueueBusy.
			WithData("queue", string(kind)).
			WithData("pending", len(*q))
	}
	if k, missing, short := c.Resources.FirstShortfall(cost); short {
		return nil, ErrResourceNotEnough.
			WithData("resource", string(k)).
			WithData("missing", missing)
	}
	if duration <= 0 {
		duration = time.Second
	}

	item := QueueItem{
		ID:          fmt.Sprintf("%s:%s:%d", kind, target, now.UnixMilli()),
		Target:      target,
		TargetLevel: targetLevel,
		Amount:      amount,
		StartTime:   now,
		EndTime:     now.Add(duration),
	}
	c.Resources = c.Resources.Sub(cost)
	*q = append(*q, item)
	c.UpdatedAt = now
	return &item, nil
}

// SettleWarnFunc 用于把坏数据（时间无法解析的条目）上报给日志通道。
type SettleWarnFunc func(item QueueItem)

// Settle 结算已到期的条目：把队列按 EndTime <= now 切分，
// 对每个完成条目“应用效果 + 移出队列”作为单个原子步骤（同一份聚合内存里完成，
// 随后整体持久化），因此重复调用是幂等的。
//
// 完成判定对每个条目独立进行，不要求队首先完成。
// Malformed 条目永远保留在队列里并通过 warn 上报。
func (c *City) Settle(kind QueueKind, now time.Time, warn SettleWarnFunc) []QueueItem {
	q := c.queue(kind)
	if q == nil || len(*q) == 0 {
		return nil
	}

	var done []QueueItem
	remain := (*q)[:0]
	for _, item := range *q {
		if item.Malformed {
			if warn != nil {
				warn(item)
			}
			remain = append(remain, item)
			continue
		}
		if item.EndTime.After(now) {
			remain = append(remain, item)
			continue
		}
		c.apply(kind, item)
		done = append(done, item)
	}
	*q = remain
	if len(done) > 0 {
		c.UpdatedAt = now
	}
	return done
}

// apply 完成条目的效果：建筑/科技置为目标等级，训练增加兵力。
func (c *City) apply(kind QueueKind, item QueueItem) {
	switch kind {
	case QueueBuilding:
		if c.Buildings == nil {
			c.Buildings = make(map[string]int)
		}
		c.Buildings[item.Target] = item.TargetLevel
	case QueueResearch:
		if c.Research == nil {
			c.Research = make(map[string]int)
		}
		c.Research[item.Target] = item.TargetLevel
	case QueueTraining:
		if c.Army == nil {
			c.Army = make(map[string]int)
		}
		c.Army[item.Target] += item.Amount
	}
}
