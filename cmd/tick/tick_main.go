package main

import (
	citymongo "Aethelgard/internal/city/infra/persistence/mongodb"
	"Aethelgard/internal/shared/gameconfig/balance"
	sharedmongo "Aethelgard/internal/shared/infrastructure/mongo"
	"Aethelgard/internal/shared/logs"
	"Aethelgard/internal/shared/serverconfig"
	"Aethelgard/internal/tick"
	worldmongo "Aethelgard/internal/world/infra/persistence/mongodb"
	"Aethelgard/modules/kit/logx"
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	serverconfig.Load()
	if err := logs.Init("tick", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	balanceCfg := balance.Load()
	logger := logx.NewZapLogger(logs.Logger())

	mongoClient, err := sharedmongo.Open(serverconfig.Conf.MongoDB, logs.Logger())
	if err != nil {
		logs.Fatal("open mongodb failed", zap.Error(err))
	}
	mongoDB := mongoClient.Database(serverconfig.Conf.MongoDB.Database)
	txRunner := sharedmongo.NewTxRunner(mongoClient)

	cityRepo := citymongo.NewCityRepository(mongoDB, balanceCfg)
	tileRepo := worldmongo.NewTileRepository(mongoDB)
	missionRepo := worldmongo.NewMissionRepository(mongoDB)

	coordinator := tick.NewCoordinator(cityRepo, txRunner, balanceCfg, logger)
	resolver := tick.NewResolver(cityRepo, tileRepo, missionRepo, txRunner, balanceCfg, logger)

	tickInterval := time.Duration(serverconfig.Conf.TickServer.TickIntervalS) * time.Second
	if tickInterval <= 0 {
		tickInterval = 5 * time.Minute
	}
	resolveInterval := time.Duration(serverconfig.Conf.TickServer.ResolveIntervalS) * time.Second
	if resolveInterval <= 0 {
		resolveInterval = 10 * time.Second
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runGlobalTick(ctx, coordinator, tickInterval)
	go runResolver(ctx, resolver, resolveInterval)

	logs.Info("tick worker started",
		zap.Duration("tick_interval", tickInterval),
		zap.Duration("resolve_interval", resolveInterval),
	)
	<-ctx.Done()
	logs.Info("收到退出信号，准备优雅退出")

	if err := mongoClient.Disconnect(context.Background()); err != nil {
		logs.Error("mongodb disconnect failed", zap.Error(err))
	}
}

func runGlobalTick(ctx context.Context, c *tick.Coordinator, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.RunGlobalTick(ctx); err != nil {
				logs.Error("global tick failed", zap.Error(err))
			}
		}
	}
}

func runResolver(ctx context.Context, r *tick.Resolver, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.ResolveDue(ctx)
		}
	}
}
