package app

import (
	"Aethelgard/internal/account/domain"
	"Aethelgard/modules/kit/logx"
	"context"
)

type UserRepo interface {
	GetUserByUserName(ctx context.Context, username string) (*domain.User, error)
	// Save 返回落库后的用户（含自增 uid）。
	Save(ctx context.Context, n domain.User) (*domain.User, error)
}

type LoginHistoryRepo interface {
	Save(ctx context.Context, history domain.LoginHistory) error
}

type LoginLastRepo interface {
	GetLoginLast(ctx context.Context, uid int) (domain.LoginLast, error)
	Save(ctx context.Context, ll domain.LoginLast) error
}

// StarterCityCreator 注册钩子：给新账号建开局城池（由 city 服务实现）。
type StarterCityCreator interface {
	CreateStarterCity(ctx context.Context, uid int, name string) (cityID string, err error)
}

type PwdEncrypter func(pwd, passcode string) string

type RandSeq func(n int) string

type Logger = logx.Logger
