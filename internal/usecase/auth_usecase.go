package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"healthcare-plus-api/internal/converter"
	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/domain/entity"
	"healthcare-plus-api/internal/domain/repository"
	"healthcare-plus-api/internal/service"
	"healthcare-plus-api/pkg/jwt"

	"healthcare-plus-api/config"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrContactAlreadyExists  = errors.New("contact already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenRevoked          = errors.New("token has been revoked")
	ErrPatientNotFound       = errors.New("patient not found")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, subjectID uuid.UUID, accessTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetProfile(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error)
}

type authUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	adminCfg    config.AdminConfig
	audit       service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
	adminCfg config.AdminConfig,
	audit service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:          db,
		log:         log,
		patientRepo: patientRepo,
		jwtService:  jwtService,
		redisClient: redisClient,
		adminCfg:    adminCfg,
		audit:       audit,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.PatientResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	patient := &entity.Patient{
		Username: req.Username,
		Password: string(hashedPassword),
		Name:     req.Name,
		Contact:  req.Contact,
		Email:    req.Email,
		Address:  req.Address,
	}

	if err := u.patientRepo.Create(u.db.WithContext(ctx), patient); err != nil {
		if isDuplicateKeyError(err, "username") {
			return nil, ErrUsernameAlreadyExists
		}
		if isDuplicateKeyError(err, "contact") {
			return nil, ErrContactAlreadyExists
		}
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	u.audit.Record(u.db.WithContext(ctx), &patient.ID, entity.AuditActionPatientRegister, entity.JSON{
		"username": patient.Username,
	})

	return converter.PatientToResponse(patient), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	patient, err := u.patientRepo.FindByUsername(u.db.WithContext(ctx), req.Username)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.Username, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(patient.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, patient.ID, patient.Username, entity.RolePatient)
	if err != nil {
		return nil, err
	}

	u.audit.Record(u.db.WithContext(ctx), &patient.ID, entity.AuditActionPatientLogin, entity.JSON{
		"username": patient.Username,
	})

	return tokens, nil
}

// AdminLogin authenticates against the configured admin credentials. The
// admin is not a database record; its subject ID in claims is the nil UUID.
func (u *authUsecase) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.TokenResponse, error) {
	if u.adminCfg.Username == "" || u.adminCfg.Password == "" {
		u.log.Warn("Admin login attempted but admin credentials are not configured")
		return nil, ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(u.adminCfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(u.adminCfg.Password)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.issueTokens(ctx, uuid.Nil, req.Username, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}

	u.audit.Record(u.db.WithContext(ctx), nil, entity.AuditActionAdminLogin, entity.JSON{
		"username": req.Username,
	})

	return tokens, nil
}

func (u *authUsecase) Logout(ctx context.Context, subjectID uuid.UUID, accessTokenID string) error {
	tokenKey := fmt.Sprintf("access_token:%s:%s", subjectID.String(), accessTokenID)
	if err := u.redisClient.Del(ctx, tokenKey).Err(); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	tokenKey := fmt.Sprintf("refresh_token:%s:%s", claims.SubjectID.String(), claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, tokenKey).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	// Rotate: old refresh token is revoked when new tokens are issued.
	if err := u.redisClient.Del(ctx, tokenKey).Err(); err != nil {
		u.log.Warnf("Failed to revoke old refresh token: %+v", err)
	}

	return u.issueTokens(ctx, claims.SubjectID, claims.Username, claims.Role)
}

func (u *authUsecase) GetProfile(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return converter.PatientToResponse(patient), nil
}

// issueTokens creates an access/refresh pair and registers both in Redis so
// they can be revoked before expiry.
func (u *authUsecase) issueTokens(ctx context.Context, subjectID uuid.UUID, username, role string) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(subjectID, username, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(subjectID, username, role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", subjectID.String(), accessTokenID)
	if err := u.redisClient.Set(ctx, accessKey, "1", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", subjectID.String(), refreshTokenID)
	if err := u.redisClient.Set(ctx, refreshKey, "1", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		Role:         role,
	}, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// for a constraint whose name contains constraintName
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isUniqueViolation checks for any PostgreSQL unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
