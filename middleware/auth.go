package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"booking-calendar/models"
)

const principalKey = "principal"

var errInvalidToken = errors.New("invalid or expired token")

// CognitoIssuer is the issuer URL of a Cognito user pool.
func CognitoIssuer(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}

// NewCognitoKeyfunc downloads the pool's JWKS and keeps it fresh in the background.
func NewCognitoKeyfunc(region, userPoolID string) (jwt.Keyfunc, error) {
	jwksURL := CognitoIssuer(region, userPoolID) + "/.well-known/jwks.json"
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Printf("⚠️  jwks refresh failed: %v", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("load jwks %s: %w", jwksURL, err)
	}
	return jwks.Keyfunc, nil
}

// Authenticator verifies bearer access tokens. With a nil keyfunc every
// request passes as the anonymous principal.
type Authenticator struct {
	keyfunc        jwt.Keyfunc
	issuer         string
	defaultCompany models.CompanyID
	parser         *jwt.Parser
}

func NewAuthenticator(kf jwt.Keyfunc, issuer string, defaultCompany models.CompanyID) *Authenticator {
	return &Authenticator{
		keyfunc:        kf,
		issuer:         issuer,
		defaultCompany: defaultCompany,
		parser:         jwt.NewParser(jwt.WithValidMethods([]string{"RS256"})),
	}
}

func (a *Authenticator) Enabled() bool { return a.keyfunc != nil }

// Verify checks signature, expiry, issuer and token_use.
func (a *Authenticator) Verify(raw string) (models.Principal, error) {
	claims := jwt.MapClaims{}
	token, err := a.parser.ParseWithClaims(raw, claims, a.keyfunc)
	if err != nil || !token.Valid {
		return models.Principal{}, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if !claims.VerifyIssuer(a.issuer, true) {
		return models.Principal{}, fmt.Errorf("%w: issuer %v", errInvalidToken, claims["iss"])
	}
	if use, _ := claims["token_use"].(string); use != "access" {
		return models.Principal{}, fmt.Errorf("%w: token_use %q", errInvalidToken, use)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return models.Principal{}, fmt.Errorf("%w: missing sub", errInvalidToken)
	}

	p := models.Principal{Subject: sub, CompanyID: a.defaultCompany, Token: raw}
	p.Username, _ = claims["username"].(string)
	if company, ok := claims["custom:company_id"].(string); ok && company != "" {
		p.CompanyID = models.CompanyID(company)
	}
	return p, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// RequireAuth rejects requests without a valid access token and stores the
// Principal for handlers.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if !a.Enabled() {
			c.Set(principalKey, models.Principal{Subject: "anonymous", CompanyID: a.defaultCompany, Token: raw})
			c.Next()
			return
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		p, err := a.Verify(raw)
		if err != nil {
			log.Printf("auth: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// PrincipalFrom returns the caller set by RequireAuth.
func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
