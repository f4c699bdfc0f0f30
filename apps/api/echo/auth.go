package echoapi

import (
	"sort"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/zawadi/shule/core"
	"github.com/zawadi/shule/core/staff"
)

const (
	claimsContextKey = "staffToken"
	contextStaffKey  = "staff"
)

// newJWTConfig is the default JWT auth middleware config.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    claimsContextKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt      int64    `json:"oriat,omitempty"`
	Username          string   `json:"username,omitempty"`
	Email             string   `json:"email,omitempty"`
	IsAdmin           bool     `json:"is_admin,omitempty"`           // -> ADMIN PORTAL
	CanManageStudents bool     `json:"can_manage_students,omitempty"` // student records & imports
	Roles             []string `json:"roles,omitempty"`
}

func GetStaffClaims(conf *core.Config, stf staff.Staff, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   stf.ID,
			Audience:  "Shule",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt:      oriat,
		Username:          stf.Username,
		Email:             stf.Email,
		IsAdmin:           stf.IsAdmin(),
		CanManageStudents: stf.CanManageStudents(),
		Roles:             stf.Roles,
	}
}

func authenticate(ctx echo.Context, login staff.LoginStaff, svc *staff.Service, conf *core.Config) (*Claims, error) {
	stf, err := svc.Authenticate(ctx.Request().Context(), login)
	if err != nil {
		switch errors.Cause(err) {
		case staff.ErrNotFound, bcrypt.ErrMismatchedHashAndPassword:
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "authenticating")
	}
	return GetStaffClaims(conf, stf), nil
}

// GenerateToken generates a signed JWT token string representing the staff Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(claimsContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextStaff(ctx echo.Context, svc *staff.Service, clms ...Claims) (staff.Staff, error) {
	if stf, ok := ctx.Get(contextStaffKey).(staff.Staff); ok {
		return stf, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return staff.Staff{}, errors.Wrap(err, "getting context claims")
		}
	}

	stf, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "finding staff member by ID")
	}
	ctx.Set(contextStaffKey, stf)
	return stf, nil
}

func contextHasAnyRole(ctx echo.Context, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	if claims, err := getContextClaims(ctx); err == nil {
		sort.Strings(claims.Roles)
		for _, role := range roles {
			if i := sort.SearchStrings(claims.Roles, role); i < len(claims.Roles) {
				if match := claims.Roles[i]; role == match {
					return true
				}
			}
		}
	}
	return false
}

func refreshToken(ctx echo.Context, svc *staff.Service, conf *core.Config) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	stf, err := getContextStaff(ctx, svc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context staff")
	}

	// check if staff member is still active
	if !stf.IsActive {
		return "", errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := GetStaffClaims(conf, stf, claims.OrigIssuedAt)
	token, err := GenerateToken(conf, newClaims)
	return token, errors.Wrap(err, "generating token")
}
