package domain

import "Aethelgard/modules/kit/errx"

// 城建域业务错误。校验全部发生在事务提交之前（fail closed），
// 这些错误出现时状态一定没有被改动。
var (
	ErrCityNotFound      = errx.NewBiz("CITY_NOT_FOUND", "城池不存在")
	ErrQueueBusy         = errx.NewBiz("QUEUE_BUSY", "同类队列已有进行中的条目")
	ErrResourceNotEnough = errx.NewBiz("RESOURCE_NOT_ENOUGH", "资源不足")
	ErrUnitNotEnough     = errx.NewBiz("UNIT_NOT_ENOUGH", "兵力不足")
	ErrUnknownKind       = errx.NewBiz("UNKNOWN_KIND", "未知的建筑/兵种/科技")
	ErrMaxLevel          = errx.NewBiz("MAX_LEVEL", "已达最大等级")
	ErrBadAmount         = errx.NewBiz("BAD_AMOUNT", "数量必须为正数")
)

// ErrMalformedTimestamp 只用于告警日志归因，条目会被继续当作未完成处理，不会中断结算。
var ErrMalformedTimestamp = errx.NewBiz("MALFORMED_TIMESTAMP", "时间字段无法解析")
