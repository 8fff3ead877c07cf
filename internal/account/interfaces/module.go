package interfaces

import (
	"Aethelgard/internal/account/app"
	"Aethelgard/internal/account/interfaces/handler"
	transporthttp "Aethelgard/internal/shared/transport/http"

	"github.com/gin-gonic/gin"
)

type Module struct {
	account *handler.Account
}

func New(userService *app.UserService) *Module {
	return &Module{account: handler.NewAccount(userService)}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.account.RegisterRoutes(g)
}

var _ transporthttp.Registrar = (*Module)(nil)
