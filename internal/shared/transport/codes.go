package transport

// 客户端可见的业务码表。
//
// 约束：
// - 0 表示成功；1~499 表示业务拒绝（WARN 级访问日志）；>=500 表示技术错误（ERROR 级）
// - 码值一旦发布不允许复用或改义，只能追加
const (
	OK           = 0
	InvalidParam = 1
	Unauthorized = 2
	NotFound     = 3

	// 城建/队列
	QueueBusy         = 10
	ResourceNotEnough = 11
	UnitNotEnough     = 12

	// 世界/行军
	InvalidTarget    = 13
	CapacityExceeded = 14
	NoArmySpeed      = 15

	// 账号
	UserExist    = 30
	PwdIncorrect = 31

	// 技术类
	SystemError         = 500
	TxConflict          = 501
	UpstreamUnavailable = 502
	UpstreamTimeout     = 503
)
