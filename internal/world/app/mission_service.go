package app

import (
	"context"
	"fmt"
	"time"

	cityapp "Aethelgard/internal/city/app"
	cityport "Aethelgard/internal/city/app/port"
	citydomain "Aethelgard/internal/city/domain"
	"Aethelgard/internal/shared/gameconfig/balance"
	"Aethelgard/internal/shared/utils"
	"Aethelgard/internal/world/app/port"
	"Aethelgard/internal/world/domain"
	"Aethelgard/modules/kit/logx"

	"go.uber.org/zap"
)

type MissionService struct {
	cities   cityport.CityRepository
	tiles    port.TileRepository
	missions port.MissionRepository
	tx       cityport.TxRunner
	cfg      *balance.Config
	log      logx.Logger
	now      func() time.Time
}

func NewMissionService(
	cities cityport.CityRepository,
	tiles port.TileRepository,
	missions port.MissionRepository,
	tx cityport.TxRunner,
	cfg *balance.Config,
	log logx.Logger,
) *MissionService {
	return &MissionService{
		cities:   cities,
		tiles:    tiles,
		missions: missions,
		tx:       tx,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// StartMission 出征。校验、扣减、建任务、占格子全部在同一个事务里完成，
// 事务内重读源城和目标格子，防止并发出征把同一批兵力/资源扣两次。
func (s *MissionService) StartMission(
	ctx context.Context,
	uid int,
	originCityID, targetTileID string,
	action domain.ActionType,
	army map[string]int,
	payload citydomain.Amounts,
) (*domain.WorldMission, error) {
	id, err := utils.NextSnowflakeID()
	if err != nil {
		return nil, err
	}
	missionID := fmt.Sprintf("%d", id)

	var out *domain.WorldMission
	err = s.tx.RunTransaction(ctx, func(ctx context.Context) error {
		origin, err := s.cities.LoadCity(ctx, originCityID)
		if err != nil {
			return err
		}
		if origin.OwnerID != uid {
			return citydomain.ErrCityNotFound.WithData("city_id", originCityID)
		}
		target, err := s.tiles.LoadTile(ctx, targetTileID)
		if err != nil {
			return err
		}

		now := s.now()
		s.accrue(origin, now)

		m, err := domain.PlanMission(s.cfg, origin, target, action, army, payload, now)
		if err != nil {
			return err
		}
		m.ID = missionID

		if err := origin.DebitArmy(army); err != nil {
			return err
		}
		if action == domain.ActionSendRss {
			origin.Resources = origin.Resources.Sub(payload)
		}
		if action == domain.ActionGather {
			if err := target.ClaimGather(m.ID); err != nil {
				return err
			}
			if err := s.tiles.Save(ctx, target); err != nil {
				return err
			}
		}

		if err := s.cities.Save(ctx, origin); err != nil {
			return err
		}
		if err := s.missions.Insert(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.log != nil {
		s.log.Info("mission started",
			zap.String("mission_id", out.ID),
			zap.Int("owner_id", out.OwnerID),
			zap.String("action", string(out.Action)),
			zap.String("target_tile_id", out.TargetTileID),
			zap.Time("arrival_time", out.ArrivalTime),
		)
	}
	return out, nil
}

// ListMissions 玩家自己的任务列表（已完成的也返回，客户端自行过滤）。
func (s *MissionService) ListMissions(ctx context.Context, uid int) ([]*domain.WorldMission, error) {
	return s.missions.LoadByOwner(ctx, uid)
}

func (s *MissionService) accrue(c *citydomain.City, now time.Time) {
	elapsed := now.Sub(c.LastTickAt)
	if elapsed > 0 {
		c.Resources, c.TickRemainder = citydomain.Accrue(
			c.Resources,
			cityapp.ProductionRates(s.cfg, c),
			cityapp.CapacityOf(s.cfg, c),
			elapsed,
			c.TickRemainder,
		)
	}
	c.LastTickAt = now
	c.UpdatedAt = now
}
