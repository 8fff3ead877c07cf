package http

import "github.com/gin-gonic/gin"

// Registrar 由各业务模块实现，用于把 HTTP 路由挂到统一 RouterGroup 上。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}
