package domain

import "Aethelgard/modules/kit/errx"

var (
	ErrTileNotFound    = errx.NewBiz("TILE_NOT_FOUND", "目标格子不存在")
	ErrMissionNotFound = errx.NewBiz("MISSION_NOT_FOUND", "任务不存在")
	// ErrInvalidTarget 行动类型与目标格子不兼容（含采集格子已被占用）。
	ErrInvalidTarget = errx.NewBiz("INVALID_TARGET", "目标不可执行该行动")
	// ErrCapacityExceeded 运送的资源超过了出征部队的总运载量。
	ErrCapacityExceeded = errx.NewBiz("TRANSPORT_CAPACITY_EXCEEDED", "超出部队运载能力")
	// ErrNoArmySpeed 部队为空或没有任何兵种的速度配置，无法计算行军时间。
	ErrNoArmySpeed = errx.NewBiz("NO_ARMY_SPEED", "部队无法行军")
	ErrBadPayload  = errx.NewBiz("BAD_PAYLOAD", "运送资源不合法")
)
