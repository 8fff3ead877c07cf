package interfaces

import (
	accountapp "Aethelgard/internal/account/app"
	cityapp "Aethelgard/internal/city/app"
	"Aethelgard/internal/gate/interfaces/handler"
	gatehttp "Aethelgard/internal/gate/interfaces/handler/http"
	gatews "Aethelgard/internal/gate/interfaces/handler/ws"
	"Aethelgard/internal/shared/session"
	transporthttp "Aethelgard/internal/shared/transport/http"
	"Aethelgard/internal/shared/transport/ws"
	worldapp "Aethelgard/internal/world/app"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *gatews.WsHandler
	httpHandler *gatehttp.HttpHandler
}

func New(s session.Manager, accounts *accountapp.UserService, cities *cityapp.CityService,
	missions *worldapp.MissionService, world *worldapp.WorldService) *Module {
	gate := handler.NewGate(s, accounts, cities, missions, world)
	return &Module{
		wsHandler:   gatews.NewWsHandler(gate),
		httpHandler: gatehttp.NewHttpHandler(gate),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
