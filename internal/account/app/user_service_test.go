package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"Aethelgard/internal/account/domain"
	"Aethelgard/internal/account/dto"
	"Aethelgard/internal/shared/security"

	"go.uber.org/zap"
)

type fakeUserRepo struct {
	user *domain.User
	err  error

	saveCalls int
	lastSaved domain.User
	saveErr   error
	nextUID   int
}

func (r *fakeUserRepo) GetUserByUserName(ctx context.Context, username string) (*domain.User, error) {
	return r.user, r.err
}

func (r *fakeUserRepo) Save(ctx context.Context, n domain.User) (*domain.User, error) {
	r.saveCalls++
	r.lastSaved = n
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	n.UId = r.nextUID
	return &n, nil
}

type fakeHistoryRepo struct {
	calls    int
	lastSave domain.LoginHistory
	err      error
}

func (r *fakeHistoryRepo) Save(ctx context.Context, history domain.LoginHistory) error {
	r.calls++
	r.lastSave = history
	return r.err
}

type fakeLastRepo struct {
	getResult domain.LoginLast
	getErr    error

	saveCalls int
	lastSave  domain.LoginLast
	saveErr   error
}

func (r *fakeLastRepo) GetLoginLast(ctx context.Context, uid int) (domain.LoginLast, error) {
	return r.getResult, r.getErr
}

func (r *fakeLastRepo) Save(ctx context.Context, ll domain.LoginLast) error {
	r.saveCalls++
	r.lastSave = ll
	return r.saveErr
}

type fakeCityCreator struct {
	calls    int
	lastUID  int
	lastName string
	cityID   string
	err      error
}

func (c *fakeCityCreator) CreateStarterCity(ctx context.Context, uid int, name string) (string, error) {
	c.calls++
	c.lastUID = uid
	c.lastName = name
	if c.err != nil {
		return "", c.err
	}
	return c.cityID, nil
}

type nopLogger struct{}

func (nopLogger) WithContext(ctx context.Context) Logger { return nopLogger{} }
func (nopLogger) Info(msg string, fields ...zap.Field)   {}
func (nopLogger) Error(msg string, fields ...zap.Field)  {}
func (nopLogger) Debug(msg string, fields ...zap.Field)  {}
func (nopLogger) Warn(msg string, fields ...zap.Field)   {}

func newTestService(uRepo *fakeUserRepo, hRepo *fakeHistoryRepo, lRepo *fakeLastRepo,
	cc *fakeCityCreator) *UserService {
	return NewUserService(
		uRepo,
		func(pwd, passcode string) string { return pwd + ":" + passcode },
		nopLogger{},
		hRepo,
		lRepo,
		func(n int) string { return "abc123" },
		cc,
	)
}

func TestLogin_密码错误应返回凭证错误且不写库(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	user := domain.User{UId: 1, Username: "u", Passwd: "right:pc", Passcode: "pc"}
	hRepo := &fakeHistoryRepo{}
	lRepo := &fakeLastRepo{getErr: domain.ErrLastLoginNotFound}
	s := newTestService(&fakeUserRepo{user: &user}, hRepo, lRepo, &fakeCityCreator{})

	_, err := s.Login(context.Background(), dto.LoginReq{Username: "u", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("期望 ErrInvalidCredentials, got=%v", err)
	}
	if hRepo.calls != 0 || lRepo.saveCalls != 0 {
		t.Fatalf("期望密码错误时不写 login_history/login_last, history=%d last=%d", hRepo.calls, lRepo.saveCalls)
	}
}

func TestLogin_用户不存在应返回凭证错误(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	uRepo := &fakeUserRepo{err: domain.ErrUserNotFound}
	s := newTestService(uRepo, &fakeHistoryRepo{}, &fakeLastRepo{}, &fakeCityCreator{})

	_, err := s.Login(context.Background(), dto.LoginReq{Username: "nobody", Password: "pwd"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("期望不暴露用户是否存在（ErrInvalidCredentials）, got=%v", err)
	}
}

func TestLogin_Award失败应返回系统错误且不写库(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	user := domain.User{UId: 1, Username: "u", Passwd: "pwd:"}
	hRepo := &fakeHistoryRepo{}
	lRepo := &fakeLastRepo{getErr: domain.ErrLastLoginNotFound}
	s := newTestService(&fakeUserRepo{user: &user}, hRepo, lRepo, &fakeCityCreator{})

	_, err := s.Login(context.Background(), dto.LoginReq{Username: "u", Password: "pwd"})
	if err == nil {
		t.Fatalf("期望返回错误")
	}
	if !errors.Is(err, ErrInternalServer) {
		t.Fatalf("期望返回系统错误 ErrInternalServer, got=%v", err)
	}
	if !errors.Is(err, security.ErrJWTSecretMissing) {
		t.Fatalf("期望保留 JWT_SECRET 缺失的 cause 链, got=%v", err)
	}
	if hRepo.calls != 0 || lRepo.saveCalls != 0 {
		t.Fatalf("期望 Award 失败时不写 login_history/login_last, history=%d last=%d", hRepo.calls, lRepo.saveCalls)
	}
}

func TestLogin_应更新login_last并写入成功状态(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	user := domain.User{UId: 42, Username: "u", Passwd: "pwd:pc", Passcode: "pc"}
	hRepo := &fakeHistoryRepo{}
	exist := domain.LoginLast{Id: 7, UId: 42, Session: "old", LoginTime: time.Unix(1, 0)}
	lRepo := &fakeLastRepo{getResult: exist, getErr: nil}
	s := newTestService(&fakeUserRepo{user: &user}, hRepo, lRepo, &fakeCityCreator{})

	resp, err := s.Login(context.Background(), dto.LoginReq{Username: "u", Password: "pwd", Ip: "1.1.1.1", Hardware: "h"})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if resp.Session == "" {
		t.Fatalf("期望 Session 非空")
	}
	if resp.UId != 42 {
		t.Fatalf("期望返回 uid=42, got=%d", resp.UId)
	}
	if hRepo.calls != 1 {
		t.Fatalf("期望写入一次 login_history, got=%d", hRepo.calls)
	}
	if hRepo.lastSave.State != domain.LoginSuccess {
		t.Fatalf("期望 login_history.State 表示成功，got=%d", hRepo.lastSave.State)
	}
	if lRepo.saveCalls != 1 {
		t.Fatalf("期望 upsert 一次 login_last, got=%d", lRepo.saveCalls)
	}
	if lRepo.lastSave.Id != 7 {
		t.Fatalf("期望更新而非插入新记录（保留原 Id），got=%d", lRepo.lastSave.Id)
	}
	if lRepo.lastSave.Session == "" || lRepo.lastSave.Session == "old" {
		t.Fatalf("期望更新 session, got=%q", lRepo.lastSave.Session)
	}
	if lRepo.lastSave.LoginTime.IsZero() {
		t.Fatalf("期望更新 login_time")
	}
}

func TestRegister_用户名已存在应拒绝(t *testing.T) {
	user := domain.User{UId: 1, Username: "taken"}
	uRepo := &fakeUserRepo{user: &user}
	cc := &fakeCityCreator{}
	s := newTestService(uRepo, &fakeHistoryRepo{}, &fakeLastRepo{}, cc)

	_, err := s.Register(context.Background(), dto.RegisterReq{Username: "taken", Password: "pwd"})
	if !errors.Is(err, ErrUserExist) {
		t.Fatalf("期望 ErrUserExist, got=%v", err)
	}
	if uRepo.saveCalls != 0 || cc.calls != 0 {
		t.Fatalf("期望重名时不落库不建城, save=%d city=%d", uRepo.saveCalls, cc.calls)
	}
}

func TestRegister_应落库并创建开局城池(t *testing.T) {
	uRepo := &fakeUserRepo{err: domain.ErrUserNotFound, nextUID: 9}
	cc := &fakeCityCreator{cityID: "city-9"}
	s := newTestService(uRepo, &fakeHistoryRepo{}, &fakeLastRepo{}, cc)

	resp, err := s.Register(context.Background(), dto.RegisterReq{
		Username: "newbie", Password: "pwd", CityName: "曙光堡", Hardware: "h",
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if uRepo.saveCalls != 1 {
		t.Fatalf("期望落库一次, got=%d", uRepo.saveCalls)
	}
	if uRepo.lastSaved.Passwd == "pwd" {
		t.Fatalf("期望密码加密存储, got=%q", uRepo.lastSaved.Passwd)
	}
	if uRepo.lastSaved.Passcode == "" {
		t.Fatalf("期望生成 passcode")
	}
	if cc.calls != 1 || cc.lastUID != 9 || cc.lastName != "曙光堡" {
		t.Fatalf("期望用落库后的 uid 建城, calls=%d uid=%d name=%q", cc.calls, cc.lastUID, cc.lastName)
	}
	if resp.UId != 9 || resp.CityId != "city-9" {
		t.Fatalf("期望返回 uid 与 city_id, got=%+v", resp)
	}
}

func TestRegister_建城失败应返回系统错误并带uid(t *testing.T) {
	uRepo := &fakeUserRepo{err: domain.ErrUserNotFound, nextUID: 9}
	cc := &fakeCityCreator{err: errors.New("mongo down")}
	s := newTestService(uRepo, &fakeHistoryRepo{}, &fakeLastRepo{}, cc)

	_, err := s.Register(context.Background(), dto.RegisterReq{Username: "newbie", Password: "pwd"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("期望 ErrUnavailable, got=%v", err)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("期望 errx 错误, got=%v", err)
	}
	if e.Data()["uid"] != 9 {
		t.Fatalf("期望 data 携带 uid 便于补建, got=%v", e.Data())
	}
}
