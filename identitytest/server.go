// Package identitytest runs an in-process identity service for tests and
// local development. It issues challenge nonces, verifies signed sign-in
// messages and mints real HS256 tokens, so the client library can be
// exercised end to end without external infrastructure.
package identitytest

import (
	"crypto/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MeiJie12/siwesession/core"
	"github.com/MeiJie12/siwesession/internal/eth"
	"github.com/MeiJie12/siwesession/siwe"
)

const (
	// AudienceIntermediate marks tokens returned by authenticate
	AudienceIntermediate = "siwe:intermediate"

	// AudienceAccess marks tokens returned by authorize
	AudienceAccess = "siwe:access"

	intermediateTTL = 5 * time.Minute
	accessTTL       = 24 * time.Hour
)

// Server is the stub identity service. Create it with NewServer and mount
// Router in an httptest.Server or run it standalone.
type Server struct {
	secret []byte
	router *gin.Engine

	mu     sync.Mutex
	nonces map[string]string           // nonce -> address it was issued to
	users  map[string]core.UserProfile // address -> stable profile
}

// NewServer creates a stub identity service with a fresh signing secret
func NewServer() *Server {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic(err)
	}

	s := &Server{
		secret: secret,
		nonces: make(map[string]string),
		users:  make(map[string]core.UserProfile),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	auth := router.Group("/auth")
	{
		auth.POST("/challenge", s.handleChallenge)
		auth.POST("/login", s.handleLogin)
		auth.POST("/authorize", s.handleAuthorize)
	}

	s.router = router
	return s
}

// Router returns the gin router serving the identity endpoints
func (s *Server) Router() *gin.Engine {
	return s.router
}

// handleChallenge issues a single-use nonce bound to the requesting address
func (s *Server) handleChallenge(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	nonce := uuid.New().String()

	s.mu.Lock()
	s.nonces[nonce] = req.Address
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// handleLogin verifies the signed sign-in message and returns the user's
// profile together with an intermediate token
func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Message   string `json:"message" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		AuthType  string `json:"auth_type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := siwe.Parse(req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sign-in message"})
		return
	}

	if !s.consumeNonce(msg.Nonce, msg.Address) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown or spent nonce"})
		return
	}

	sig, err := hexutil.Decode(req.Signature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature encoding"})
		return
	}

	verified, err := eth.VerifyPersonal([]byte(req.Message), sig, common.HexToAddress(msg.Address))
	if err != nil || !verified {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	token, err := s.mintToken(msg.Address, AudienceIntermediate, intermediateTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  s.profileFor(msg.Address),
		"token": token,
	})
}

// handleAuthorize exchanges a valid intermediate token for an access token
func (s *Server) handleAuthorize(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, err := s.parseToken(req.Token, AudienceIntermediate)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid intermediate token"})
		return
	}

	token, err := s.mintToken(claims.Subject, AudienceAccess, accessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int64(accessTTL / time.Second),
		"scope":        "openid profile",
	})
}

// consumeNonce spends the nonce if it exists and was issued to the address
func (s *Server) consumeNonce(nonce, address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	issued, ok := s.nonces[nonce]
	if !ok || !strings.EqualFold(issued, address) {
		return false
	}

	delete(s.nonces, nonce)
	return true
}

// profileFor returns the address's profile, creating a stable one on first
// login
func (s *Server) profileFor(address string) core.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile, ok := s.users[address]; ok {
		return profile
	}

	name := strings.ToLower(strings.TrimPrefix(address, "0x"))
	if len(name) > 6 {
		name = name[:6]
	}

	profile := core.UserProfile{
		ID:       uuid.New().String(),
		Address:  address,
		Username: "user-" + name,
	}
	s.users[address] = profile

	return profile
}

func (s *Server) mintToken(address, audience string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   address,
		Audience:  jwt.ClaimStrings{audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Server) parseToken(tokenStr, audience string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithAudience(audience))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
