package push

import (
	"Aethelgard/internal/shared/session"
	"Aethelgard/internal/shared/transport/ws"
)

// WsNotifier 把聚合变更推给在线玩家。玩家不在线直接丢弃。
type WsNotifier struct {
	session session.Manager
}

func NewWsNotifier(s session.Manager) *WsNotifier {
	return &WsNotifier{session: s}
}

func (n *WsNotifier) NotifyCityUpdate(uid int, payload any) {
	if n == nil || n.session == nil {
		return
	}
	conn, ok := n.session.GetConn(uid)
	if !ok {
		return
	}
	conn.Push(ws.PushCityUpdate, payload)
}

func (n *WsNotifier) NotifyMissionUpdate(uid int, payload any) {
	if n == nil || n.session == nil {
		return
	}
	conn, ok := n.session.GetConn(uid)
	if !ok {
		return
	}
	conn.Push(ws.PushMissionUpdate, payload)
}
