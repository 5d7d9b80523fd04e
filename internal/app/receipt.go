package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/rs/xid"
)

const (
	ReceiptIssuer   = "matchgrid"
	receiptLifetime = 24 * time.Hour
)

var ErrInvalidReceipt = errors.New("invalid game receipt")

// Receipt is the verified content of a signed game result.
type Receipt struct {
	GameID           string
	UserID           string
	Won              bool
	RemainingSeconds int
	SecondsUsed      int
	Rows             int
	Columns          int
	IssuedAt         time.Time
}

// ReceiptSigner issues and verifies HS256 receipts for finished games so a
// client can prove a result to other services.
type ReceiptSigner struct {
	secret []byte
	now    func() time.Time
}

func NewReceiptSigner(secret string) *ReceiptSigner {
	return &ReceiptSigner{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Sign produces a receipt token for the ended game owned by userID.
func (s *ReceiptSigner) Sign(userID string, ended GameEndedPayload) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", fmt.Errorf("receipt signer is not configured")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if ended.GameID == "" {
		return "", fmt.Errorf("game id is required")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": ReceiptIssuer,
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(receiptLifetime).Unix(),
		"jti": xid.New().String(),
		"gid": ended.GameID,
		"won": ended.Won,
		"rem": ended.RemainingSeconds,
		"use": ended.SecondsUsed,
		"row": ended.Rows,
		"col": ended.Columns,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, issuer and expiry and returns the receipt content.
func (s *ReceiptSigner) Verify(tokenString string) (Receipt, error) {
	if s == nil || len(s.secret) == 0 {
		return Receipt{}, fmt.Errorf("receipt signer is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrInvalidReceipt, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Receipt{}, ErrInvalidReceipt
	}
	if !claims.VerifyIssuer(ReceiptIssuer, true) {
		return Receipt{}, fmt.Errorf("%w: wrong issuer", ErrInvalidReceipt)
	}

	r := Receipt{
		GameID:           stringClaim(claims, "gid"),
		UserID:           stringClaim(claims, "sub"),
		RemainingSeconds: intClaim(claims, "rem"),
		SecondsUsed:      intClaim(claims, "use"),
		Rows:             intClaim(claims, "row"),
		Columns:          intClaim(claims, "col"),
		IssuedAt:         time.Unix(int64(intClaim(claims, "iat")), 0),
	}
	r.Won, _ = claims["won"].(bool)
	if r.GameID == "" || r.UserID == "" {
		return Receipt{}, fmt.Errorf("%w: missing game or user", ErrInvalidReceipt)
	}
	return r, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	s, _ := claims[name].(string)
	return s
}

// intClaim reads a numeric claim; JSON numbers decode as float64.
func intClaim(claims jwt.MapClaims, name string) int {
	switch v := claims[name].(type) {
	case float64:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
