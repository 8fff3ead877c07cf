package ws

// Registrar 由各业务模块实现，用于把 ws 路由挂到统一 Router 上。
type Registrar interface {
	WsRegister(r *Router)
}
