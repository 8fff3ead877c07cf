package ws

import (
	accountdto "Aethelgard/internal/account/dto"
	"Aethelgard/internal/gate/interfaces/handler"
	gatedto "Aethelgard/internal/gate/interfaces/handler/dto"
	wsdto "Aethelgard/internal/gate/interfaces/handler/ws/dto"
	"Aethelgard/internal/shared/transport"
	"Aethelgard/internal/shared/transport/ws"
	"context"
)

type WsHandler struct {
	gate *handler.Gate
}

func NewWsHandler(g *handler.Gate) *WsHandler {
	return &WsHandler{gate: g}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	accountGroup := r.Group("account")
	accountGroup.Handle("login", h.Login)

	cityGroup := r.Group("city")
	cityGroup.Handle("get", h.GetCity)

	worldGroup := r.Group("world")
	worldGroup.Handle("chunk", h.GetChunk)
}

// Login 登录成功后把连接绑定到会话，后续服务端可按 uid 主动下推。
func (h *WsHandler) Login(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	var req accountdto.LoginReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	if req.Ip == "" {
		req.Ip = wsReq.Conn.Addr()
	}

	resp, err := h.gate.Accounts().Login(ctx, req)
	if err != nil {
		h.error(ctx, wsResp, "ws account login", err)
		return
	}

	wsReq.Conn.SetProperty(ws.ConnKeyUID, resp.UId)
	h.gate.Session().Bind(resp.UId, resp.Session, wsReq.Conn)
	h.ok(wsResp, resp)
}

func (h *WsHandler) GetCity(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	uid, ok := h.authedUID(wsReq)
	if !ok {
		h.fail(wsResp, transport.Unauthorized, "未登录")
		return
	}

	var req wsdto.CityGetReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.CityID == "" {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	city, err := h.gate.Cities().GetCity(ctx, uid, req.CityID)
	if err != nil {
		h.error(ctx, wsResp, "ws city get", err)
		return
	}
	h.ok(wsResp, gatedto.NewCityView(city))
}

func (h *WsHandler) GetChunk(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if _, ok := h.authedUID(wsReq); !ok {
		h.fail(wsResp, transport.Unauthorized, "未登录")
		return
	}

	var req wsdto.ChunkReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	tiles, err := h.gate.World().GetWorldChunk(ctx, req.X, req.Y)
	if err != nil {
		h.error(ctx, wsResp, "ws world chunk", err)
		return
	}
	h.ok(wsResp, gatedto.NewTileViews(tiles))
}

func (h *WsHandler) authedUID(wsReq *ws.WsMsgReq) (int, bool) {
	if wsReq == nil || wsReq.Conn == nil {
		return 0, false
	}
	return h.gate.Session().GetUID(wsReq.Conn)
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, action string, err error) {
	code, msg := handler.HandleError(ctx, err)
	if code >= 500 {
		handler.ReportError(action, err)
	}
	h.fail(resp, code, msg)
}
