package handler

import (
	accountapp "Aethelgard/internal/account/app"
	cityapp "Aethelgard/internal/city/app"
	"Aethelgard/internal/shared/logs"
	"Aethelgard/internal/shared/session"
	worldapp "Aethelgard/internal/world/app"
	"Aethelgard/modules/kit/logx"

	"go.uber.org/zap"
)

// Gate 是对客户端的统一接入点：HTTP 承载请求/响应，ws 承载登录会话与服务端下推。
// 业务全部委托给各上下文的应用服务，Gate 只做路由、鉴权上下文和错误翻译。
type Gate struct {
	session  session.Manager
	accounts *accountapp.UserService
	cities   *cityapp.CityService
	missions *worldapp.MissionService
	world    *worldapp.WorldService
}

func NewGate(s session.Manager, accounts *accountapp.UserService, cities *cityapp.CityService,
	missions *worldapp.MissionService, world *worldapp.WorldService) *Gate {
	return &Gate{
		session:  s,
		accounts: accounts,
		cities:   cities,
		missions: missions,
		world:    world,
	}
}

func (g *Gate) Session() session.Manager { return g.session }

func (g *Gate) Accounts() *accountapp.UserService { return g.accounts }

func (g *Gate) Cities() *cityapp.CityService { return g.cities }

func (g *Gate) Missions() *worldapp.MissionService { return g.missions }

func (g *Gate) World() *worldapp.WorldService { return g.world }

// ReportError 接口层统一打印一次错误日志（每个请求至多一次）。
func ReportError(msg string, err error, fields ...zap.Field) {
	if err == nil {
		return
	}
	logx.ReportError(logs.Logger(), msg, err, fields...)
}
