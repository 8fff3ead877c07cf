package dto

import citydomain "Aethelgard/internal/city/domain"

type BuildReq struct {
	BuildingID string `json:"building_id" binding:"required"`
}

type ResearchReq struct {
	ResearchID string `json:"research_id" binding:"required"`
}

type TrainReq struct {
	UnitID string `json:"unit_id" binding:"required"`
	Amount int    `json:"amount" binding:"required"`
}

type MissionReq struct {
	OriginCityID string             `json:"origin_city_id" binding:"required"`
	TargetTileID string             `json:"target_tile_id" binding:"required"`
	Action       string             `json:"action" binding:"required"`
	Army         map[string]int     `json:"army" binding:"required"`
	Resources    citydomain.Amounts `json:"resources"`
}
