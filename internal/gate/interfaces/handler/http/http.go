package http

import (
	citydomain "Aethelgard/internal/city/domain"
	"Aethelgard/internal/gate/interfaces/handler"
	"Aethelgard/internal/gate/interfaces/handler/dto"
	"Aethelgard/internal/shared/transport"
	"Aethelgard/internal/shared/transport/http/middleware"
	worlddomain "Aethelgard/internal/world/domain"
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	gate *handler.Gate
}

func NewHttpHandler(g *handler.Gate) *HttpHandler {
	return &HttpHandler{gate: g}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	cityGroup := group.Group("/city", middleware.Auth())
	cityGroup.GET("/:id", h.GetCity)
	cityGroup.POST("/:id/build", h.Build)
	cityGroup.POST("/:id/research", h.Research)
	cityGroup.POST("/:id/train", h.Train)
	cityGroup.POST("/:id/queue/:kind/process", h.ProcessQueue)

	worldGroup := group.Group("/world", middleware.Auth())
	worldGroup.POST("/mission", h.StartMission)
	worldGroup.GET("/missions", h.ListMissions)
	worldGroup.GET("/chunk", h.GetChunk)
}

func (h *HttpHandler) GetCity(c *gin.Context) {
	uid, ok := middleware.UID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, "未登录")
		return
	}

	city, err := h.gate.Cities().GetCity(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.error(c, "city get", err)
		return
	}
	h.ok(c, dto.NewCityView(city))
}

func (h *HttpHandler) Build(c *gin.Context) {
	uid, ok := middleware.UID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, "未登录")
		return
	}

	var req dto.BuildReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	city, err := h.gate.Cities().StartBuild(c.Request.Context(), uid, c.Param("id"), req.BuildingID)
	if err != nil {
		h.error(c, "city build", err)
		return
	}
	h.ok(c, dto.NewCityView(city))
}

func (h *HttpHandler) Research(c *gin.Context) {
	uid, ok := middleware.UID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, "未登录")
		return
	}

	var req dto.ResearchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	city, err := h.gate.Cities().StartResearch(c.Request.Context(), uid, c.Param("id"), req.ResearchID)
	if err != nil {
		h.error(c, "city research", err)
		return
	}
	h.ok(c, dto.NewCityView(city))
}

func (h *HttpHandler) Train(c *gin.Context) {
	uid, ok := middleware.UID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, "未登录")
		return
	}

	var req dto.TrainReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	city, err := h.gate.Cities().StartTraining(c.Request.Context(), uid, c.Param("id"), req.UnitID, req.Amount)
	if err != nil {
		h.error(c, "city train", err)
		return
	}
	h.ok(c, dto.NewCityView(city))
}

func (h *HttpHandler) ProcessQueue(c *gin.Context) {
	uid, ok := middleware.UID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, "未登录")
		return
	}

	kind := citydomain.QueueKind(c.Param("kind"))
	switch kind {
	case citydomain.QueueBuilding, citydomain.QueueTraining, citydomain.QueueResearch:
	default:
		h.fail(c, transport.InvalidParam, "未知队列类型")
		return
	}

	city, err := h.gate.Cities().ProcessQueue(c.Request.Context(), uid, c.Param("id"), kind)
	if err != nil {
		h.error(c, "city queue process", err)
		return
	}
	h.ok(c, dto.NewCityView(city))
}

func (h *HttpHandler) StartMission(c *gin.Context) {
	uid, ok := middleware.UID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, "未登录")
		return
	}

	var req dto.MissionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	action := worlddomain.ActionType(req.Action)
	switch action {
	case worlddomain.ActionAttack, worlddomain.ActionSpy, worlddomain.ActionGather, worlddomain.ActionSendRss:
	default:
		h.fail(c, transport.InvalidParam, "未知行动类型")
		return
	}

	mission, err := h.gate.Missions().StartMission(c.Request.Context(), uid,
		req.OriginCityID, req.TargetTileID, action, req.Army, req.Resources)
	if err != nil {
		h.error(c, "world mission start", err)
		return
	}
	h.ok(c, dto.NewMissionView(mission))
}

func (h *HttpHandler) ListMissions(c *gin.Context) {
	uid, ok := middleware.UID(c)
	if !ok {
		h.fail(c, transport.Unauthorized, "未登录")
		return
	}

	missions, err := h.gate.Missions().ListMissions(c.Request.Context(), uid)
	if err != nil {
		h.error(c, "world mission list", err)
		return
	}
	h.ok(c, dto.NewMissionViews(missions))
}

func (h *HttpHandler) GetChunk(c *gin.Context) {
	if _, ok := middleware.UID(c); !ok {
		h.fail(c, transport.Unauthorized, "未登录")
		return
	}

	chunkX, errX := strconv.Atoi(c.Query("x"))
	chunkY, errY := strconv.Atoi(c.Query("y"))
	if errX != nil || errY != nil {
		h.fail(c, transport.InvalidParam, "坐标参数有误")
		return
	}

	tiles, err := h.gate.World().GetWorldChunk(c.Request.Context(), chunkX, chunkY)
	if err != nil {
		h.error(c, "world chunk get", err)
		return
	}
	h.ok(c, dto.NewTileViews(tiles))
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) error(c *gin.Context, action string, err error) {
	code, msg := handler.HandleError(contextOf(c), err)
	if code >= 500 {
		handler.ReportError(action, err)
	}
	h.fail(c, code, msg)
}

func contextOf(c *gin.Context) context.Context {
	return c.Request.Context()
}
