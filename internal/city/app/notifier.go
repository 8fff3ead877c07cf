package app

// Notifier 把聚合变更事件推给在线玩家（ws 通道）。
// 推送是尽力而为的：玩家不在线时丢弃，不影响事务结果。
type Notifier interface {
	NotifyCityUpdate(uid int, payload any)
}

// NopNotifier 给不需要推送的进程（tick worker、测试）用。
type NopNotifier struct{}

func (NopNotifier) NotifyCityUpdate(uid int, payload any) {}
