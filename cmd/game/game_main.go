package main

import (
	accountapp "Aethelgard/internal/account/app"
	accountdomain "Aethelgard/internal/account/domain"
	accountrepo "Aethelgard/internal/account/infra/repo"
	"Aethelgard/internal/account/infra/starter"
	accountifaces "Aethelgard/internal/account/interfaces"
	cityapp "Aethelgard/internal/city/app"
	citymongo "Aethelgard/internal/city/infra/persistence/mongodb"
	"Aethelgard/internal/gate/infra/push"
	gateifaces "Aethelgard/internal/gate/interfaces"
	"Aethelgard/internal/shared/gameconfig/balance"
	"Aethelgard/internal/shared/infrastructure/db"
	sharedmongo "Aethelgard/internal/shared/infrastructure/mongo"
	"Aethelgard/internal/shared/logs"
	"Aethelgard/internal/shared/serverconfig"
	"Aethelgard/internal/shared/session"
	transporthttp "Aethelgard/internal/shared/transport/http"
	"Aethelgard/internal/shared/transport/ws"
	"Aethelgard/internal/shared/utils"
	worldapp "Aethelgard/internal/world/app"
	worldmongo "Aethelgard/internal/world/infra/persistence/mongodb"
	"Aethelgard/modules/kit/logx"
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	serverconfig.Load()
	if err := logs.Init("game", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	balanceCfg := balance.Load()
	logger := logx.NewZapLogger(logs.Logger())

	gormDB, err := db.Open(serverconfig.Conf.MySQL)
	if err != nil {
		logs.Fatal("open db failed", zap.Error(err))
	}
	if err = gormDB.AutoMigrate(
		&accountdomain.User{},
		&accountdomain.LoginHistory{},
		&accountdomain.LoginLast{},
	); err != nil {
		logs.Fatal("migrate account tables failed", zap.Error(err))
	}

	mongoClient, err := sharedmongo.Open(serverconfig.Conf.MongoDB, logs.Logger())
	if err != nil {
		logs.Fatal("open mongodb failed", zap.Error(err))
	}
	mongoDB := mongoClient.Database(serverconfig.Conf.MongoDB.Database)
	txRunner := sharedmongo.NewTxRunner(mongoClient)

	sessMgr := session.NewSessMgr()
	notifier := push.NewWsNotifier(sessMgr)

	cityRepo := citymongo.NewCityRepository(mongoDB, balanceCfg)
	tileRepo := worldmongo.NewTileRepository(mongoDB)
	missionRepo := worldmongo.NewMissionRepository(mongoDB)

	cityService := cityapp.NewCityService(cityRepo, txRunner, balanceCfg,
		serverconfig.Conf.QueueSlots(), logger, notifier)
	missionService := worldapp.NewMissionService(cityRepo, tileRepo, missionRepo,
		txRunner, balanceCfg, logger)
	worldService := worldapp.NewWorldService(tileRepo, serverconfig.Conf.ChunkSize())

	userService := accountapp.NewUserService(
		accountrepo.NewUserRepo(gormDB),
		utils.Password,
		logger,
		accountrepo.NewLoginHistoryRepo(gormDB),
		accountrepo.NewLoginLastRepo(gormDB),
		utils.RandSeq,
		starter.NewCityCreator(cityService),
	)

	accountModule := accountifaces.New(userService)
	gateModule := gateifaces.New(sessMgr, userService, cityService, missionService, worldService)

	wsRouter := ws.NewRouter(logger)
	gateModule.WsRegister(wsRouter)
	wsServer := ws.NewServer(wsRouter, logger)

	addr := fmt.Sprintf("%s:%d", serverconfig.Conf.GameServer.Host, serverconfig.Conf.GameServer.Port)
	engine := gin.New()
	engine.Use(gin.Recovery())
	httpServer := transporthttp.NewHttpServer(addr, engine, logger)

	apiGroup := httpServer.Group().Group("/api")
	accountModule.HttpRegister(apiGroup)
	gateModule.HttpRegister(apiGroup)
	engine.GET("/ws", func(c *gin.Context) {
		wsServer.ServeHTTP(c.Writer, c.Request)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("game server started", zap.String("addr", addr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logs.Error("服务异常退出", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logs.Error("http shutdown failed", zap.Error(err))
	}
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		logs.Error("mongodb disconnect failed", zap.Error(err))
	}
}
