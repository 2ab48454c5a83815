package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/callcoach/platform/internal/api/middleware"
	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

// stubAccountService answers every call with acc/err and records the last id.
type stubAccountService struct {
	acc    *domain.Account
	list   *ports.ListAccountsResult
	err    error
	lastID string
	filter domain.AccountFilter
	patch  domain.AccountPatch
	role   domain.RoleID
	pwd    [2]string
}

func (s *stubAccountService) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	s.lastID = id
	return s.acc, s.err
}

func (s *stubAccountService) ListAccounts(_ context.Context, f domain.AccountFilter) (*ports.ListAccountsResult, error) {
	s.filter = f
	return s.list, s.err
}

func (s *stubAccountService) UpdateProfile(_ context.Context, id string, p domain.AccountPatch) (*domain.Account, error) {
	s.lastID, s.patch = id, p
	return s.acc, s.err
}

func (s *stubAccountService) AssignRole(_ context.Context, id string, r domain.RoleID) (*domain.Account, error) {
	s.lastID, s.role = id, r
	return s.acc, s.err
}

func (s *stubAccountService) Disable(_ context.Context, id string) (*domain.Account, error) {
	s.lastID = id
	return s.acc, s.err
}

func (s *stubAccountService) Enable(_ context.Context, id string) (*domain.Account, error) {
	s.lastID = id
	return s.acc, s.err
}

func (s *stubAccountService) ChangePassword(_ context.Context, id, current, next string) (*domain.Account, error) {
	s.lastID, s.pwd = id, [2]string{current, next}
	return s.acc, s.err
}

type stubCallService struct {
	createFn func(ctx context.Context, in ports.CreateCallInput) (*domain.Call, error)
	call     *domain.Call
	calls    []*domain.Call
	stats    *domain.OperatorStats
	err      error
	limit    int
	deleted  string
}

func (s *stubCallService) CreateCall(ctx context.Context, in ports.CreateCallInput) (*domain.Call, error) {
	return s.createFn(ctx, in)
}

func (s *stubCallService) GetCall(_ context.Context, _ string) (*domain.Call, error) {
	return s.call, s.err
}

func (s *stubCallService) ListCalls(_ context.Context, limit int) ([]*domain.Call, error) {
	s.limit = limit
	return s.calls, s.err
}

func (s *stubCallService) DeleteCall(_ context.Context, id string) error {
	s.deleted = id
	return s.err
}

func (s *stubCallService) OperatorStats(_ context.Context, _ string) (*domain.OperatorStats, error) {
	return s.stats, s.err
}

type stubAnalysisService struct {
	call        *domain.Call
	analysis    *domain.Analysis
	err         error
	requestedBy string
	syncCalls   int
}

func (s *stubAnalysisService) RequestAnalysis(_ context.Context, _ string, requestedBy string) (*domain.Call, error) {
	s.requestedBy = requestedBy
	return s.call, s.err
}

func (s *stubAnalysisService) AnalyzeNow(_ context.Context, _ string) (*domain.Analysis, error) {
	s.syncCalls++
	return s.analysis, s.err
}

func (s *stubAnalysisService) Process(context.Context, ports.AnalysisJob) error { return nil }

func (s *stubAnalysisService) LatestAnalysis(_ context.Context, _ string) (*domain.Analysis, error) {
	return s.analysis, s.err
}

// newContext builds an echo context with the validator installed. A non-empty
// body is sent as JSON; claims, when given, are attached as Auth would.
func newContext(method, target, body string, claims *domain.Claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ClaimsKey, claims)
	}
	return c, rec
}
