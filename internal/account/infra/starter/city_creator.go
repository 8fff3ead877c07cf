package starter

import (
	cityapp "Aethelgard/internal/city/app"
	"context"
)

// CityCreator 注册流程的开局建城适配器：账号上下文只拿 cityID，不感知城池模型。
type CityCreator struct {
	cities *cityapp.CityService
}

func NewCityCreator(cities *cityapp.CityService) *CityCreator {
	return &CityCreator{cities: cities}
}

func (c *CityCreator) CreateStarterCity(ctx context.Context, uid int, name string) (string, error) {
	city, err := c.cities.CreateStarterCity(ctx, uid, name)
	if err != nil {
		return "", err
	}
	return city.ID, nil
}
