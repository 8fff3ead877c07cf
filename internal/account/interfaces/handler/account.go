package handler

import (
	"Aethelgard/internal/account/app"
	"Aethelgard/internal/account/dto"
	"Aethelgard/internal/shared/transport"
	nethttp "net/http"

	"github.com/gin-gonic/gin"
)

type Account struct {
	userService *app.UserService
}

func NewAccount(userService *app.UserService) *Account {
	return &Account{userService: userService}
}

func (a *Account) RegisterRoutes(group *gin.RouterGroup) {
	accountGroup := group.Group("/account")
	accountGroup.POST("/login", a.Login)
	accountGroup.POST("/register", a.Register)
}

func (a *Account) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		a.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	if req.Ip == "" {
		req.Ip = c.ClientIP()
	}

	resp, err := a.userService.Login(ctx, req)
	if err != nil {
		code, msg := toClientCode(ctx, err)
		if code >= 500 {
			ReportError("account login", err)
		}
		a.fail(c, code, msg)
		return
	}
	a.ok(c, resp)
}

func (a *Account) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		a.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	resp, err := a.userService.Register(ctx, req)
	if err != nil {
		code, msg := toClientCode(ctx, err)
		if code >= 500 {
			ReportError("account register", err)
		}
		a.fail(c, code, msg)
		return
	}
	a.ok(c, resp)
}

func (a *Account) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, gin.H{"code": transport.OK, "data": data})
}

func (a *Account) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, gin.H{"code": code, "msg": msg})
}
