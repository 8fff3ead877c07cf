package app

import (
	"Aethelgard/internal/account/domain"
	"Aethelgard/internal/account/dto"
	"Aethelgard/internal/shared/security"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type UserService struct {
	userRepo     UserRepo
	pwdEncrypter PwdEncrypter
	log          Logger
	lhRepo       LoginHistoryRepo
	llRepo       LoginLastRepo
	randSeq      RandSeq
	cityCreator  StarterCityCreator
}

func NewUserService(userRepo UserRepo, pwdEncrypter PwdEncrypter, log Logger,
	loginHistoryRepo LoginHistoryRepo, llRepo LoginLastRepo, randSeq RandSeq,
	cityCreator StarterCityCreator) *UserService {
	return &UserService{
		userRepo:     userRepo,
		pwdEncrypter: pwdEncrypter,
		log:          log,
		lhRepo:       loginHistoryRepo,
		llRepo:       llRepo,
		randSeq:      randSeq,
		cityCreator:  cityCreator,
	}
}

// Login 处理登录流程
func (s *UserService) Login(ctx context.Context, req dto.LoginReq) (*dto.LoginResp, error) {
	user, err := s.userRepo.GetUserByUserName(ctx, req.Username)
	if err != nil {
		// 区分"用户不存在"（业务错误）和"数据库挂了"（技术错误）
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, ErrInvalidCredentials.WithReason(ReasonLoginInvalidCredentials)
		// 其他系统错误：在接口层统一打印一次日志，这里只保留 cause 链用于溯源。
		default:
			return nil, ErrUnavailable.WithReason(ReasonUserRepoUnavailable).WithCause(err)
		}
	}
	checkRes := user.CheckPassword(req.Password, s.pwdEncrypter)
	if !checkRes {
		return nil, ErrInvalidCredentials.WithReason(ReasonLoginInvalidCredentials)
	}

	now := time.Now()
	token, err := security.Award(user.UId)
	if err != nil {
		return nil, ErrInternalServer.WithReason(ReasonTokenIssue).WithData("uid", user.UId).WithCause(err)
	}

	// 保存登录历史
	lh := domain.LoginHistory{UId: user.UId, CTime: now, Ip: req.Ip,
		Hardware: req.Hardware, State: domain.LoginSuccess}
	if err = s.lhRepo.Save(ctx, lh); err != nil {
		return nil, ErrUnavailable.WithReason(ReasonLoginHistoryWriteFail).WithCause(err)
	}

	// 保存最后一次登录的状态
	ll, err := s.llRepo.GetLoginLast(ctx, user.UId)
	switch {
	case err == nil:
		// 已存在：刷新状态
	case errors.Is(err, domain.ErrLastLoginNotFound):
		// 不存在：创建新记录（Id=0）
		ll = domain.LoginLast{UId: user.UId}
	default:
		return nil, ErrUnavailable.WithReason(ReasonLoginLastReadFail).WithCause(err)
	}
	ll.LoginTime = now
	ll.Ip = req.Ip
	ll.Session = token
	ll.Hardware = req.Hardware
	ll.IsLogout = 0
	if err = s.llRepo.Save(ctx, ll); err != nil {
		return nil, ErrUnavailable.WithReason(ReasonLoginLastWriteFail).WithCause(err)
	}

	return &dto.LoginResp{
		Username: user.Username,
		UId:      user.UId,
		Session:  token,
	}, nil
}

// Register 注册新账号并创建开局城池。
func (s *UserService) Register(ctx context.Context, req dto.RegisterReq) (*dto.RegisterResp, error) {
	user, err := s.userRepo.GetUserByUserName(ctx, req.Username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, ErrUnavailable.WithReason(ReasonUserRepoUnavailable).WithCause(err)
	}
	if user != nil {
		// 用户已存在
		return nil, ErrUserExist.WithReason(ReasonRegisterUserExist)
	}

	now := time.Now()
	passcode := s.randSeq(6)

	n := domain.User{
		Username: req.Username,
		Passwd:   s.pwdEncrypter(req.Password, passcode),
		Passcode: passcode,
		Mtime:    now,
		Ctime:    now,
		Hardware: req.Hardware,
	}
	saved, err := s.userRepo.Save(ctx, n)
	if err != nil {
		return nil, ErrUnavailable.WithReason(ReasonUserCreateFail).WithCause(err)
	}

	cityID, err := s.cityCreator.CreateStarterCity(ctx, saved.UId, req.CityName)
	if err != nil {
		// 账号已落库但开局城池失败：返回系统错误并记录 uid，便于补建。
		if s.log != nil {
			s.log.WithContext(ctx).Error("starter city create failed",
				zap.Int("uid", saved.UId),
				zap.Error(err),
			)
		}
		return nil, ErrUnavailable.WithReason(ReasonStarterCityFail).WithData("uid", saved.UId).WithCause(err)
	}

	return &dto.RegisterResp{UId: saved.UId, CityId: cityID}, nil
}
