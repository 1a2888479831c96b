package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"server-runner/internal/models"
	"server-runner/internal/shared/configs"
	"server-runner/internal/shared/loggers"
	"server-runner/internal/shared/metrics"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const loginBurst = 5

// Claims is the verified content of a bearer token.
type Claims struct {
	Issuer    string
	ExpiresAt time.Time
}

//go:generate mockgen -source=auth_service.go -destination=./mocks/auth_service_mock.go -package=mocks
type AuthService interface {
	// Login checks the admin credential and issues a signed token.
	Login(ctx context.Context, username, password string) (*models.LoginResult, error)
	// Verify parses rawToken and returns its claims when it is valid for the admin user.
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}

type authService struct {
	adminUser    string
	password     []byte
	passwordHash []byte
	secret       []byte
	tokenTTL     time.Duration
	limiter      *rate.Limiter // nil when login attempts are not limited
	now          func() time.Time
}

func NewAuthService(cfg configs.AuthConfig) AuthService {
	s := &authService{
		adminUser: cfg.AdminUser,
		password:  []byte(cfg.AdminPassword),
		secret:    []byte(cfg.JWTSecret),
		tokenTTL:  time.Duration(cfg.TokenTTLMinutes) * time.Minute,
		now:       time.Now,
	}
	if cfg.AdminPasswordHash != "" {
		s.passwordHash = []byte(cfg.AdminPasswordHash)
	}
	if cfg.LoginRatePerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.LoginRatePerMinute)), loginBurst)
	}
	return s
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	logger := loggers.Ctx(ctx)

	if s.limiter != nil && !s.limiter.Allow() {
		svcErr := errLoginRateLimited()
		metricLoginTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}

	if username == "" || password == "" {
		svcErr := errIncompleteLogin()
		metricLoginTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}

	if !s.checkCredentials(username, password) {
		logger.Warn().Str(loggers.FieldActor, username).Msg("login rejected")
		svcErr := errInvalidCredentials()
		metricLoginTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, errInternalTokenSigningFailed(err)
	}

	metricLoginTotal.WithLabelValues(metrics.ValueNoError).Inc()
	logger.Info().Str(loggers.FieldActor, username).Msg("login succeeded")

	return &models.LoginResult{
		Token:          signed,
		ExpirationTime: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// checkCredentials compares both fields without short-circuiting.
func (s *authService) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1

	var passOK bool
	if s.passwordHash != nil {
		passOK = bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), s.password) == 1
	}

	return userOK && passOK
}

func (s *authService) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.adminUser),
		jwt.WithTimeFunc(s.now),
	)

	var claims jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(rawToken, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		loggers.Ctx(ctx).Debug().Err(err).Msg("token rejected")
		svcErr := errInvalidToken(err)
		metricTokenVerifiedTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}

	metricTokenVerifiedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	return &Claims{
		Issuer:    claims.Issuer,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
