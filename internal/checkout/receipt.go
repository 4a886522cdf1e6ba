package checkout

import (
	"errors"
	"fmt"

	"github.com/dgrijalva/jwt-go"
)

var ErrInvalidReceipt = errors.New("invalid receipt")

// ReceiptClaims is the content of a signed receipt.
type ReceiptClaims struct {
	TransactionID string
	ProductID     uint
	Amount        string
	Currency      string
	IssuedAt      int64
}

// ReceiptSigner signs and verifies HS256 payment receipts.
type ReceiptSigner struct {
	secret []byte
}

// NewReceiptSigner creates a new ReceiptSigner.
func NewReceiptSigner(secret string) *ReceiptSigner {
	return &ReceiptSigner{secret: []byte(secret)}
}

// Sign returns a compact JWS over the receipt claims.
func (s *ReceiptSigner) Sign(c ReceiptClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":        c.TransactionID,
		"product_id": c.ProductID,
		"amount":     c.Amount,
		"currency":   c.Currency,
		"iat":        c.IssuedAt,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign receipt: %w", err)
	}
	return signed, nil
}

// Verify parses a receipt and checks its signature.
func (s *ReceiptSigner) Verify(receipt string) (*ReceiptClaims, error) {
	token, err := jwt.Parse(receipt, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReceipt, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidReceipt
	}

	out := &ReceiptClaims{}
	out.TransactionID, _ = claims["jti"].(string)
	out.Amount, _ = claims["amount"].(string)
	out.Currency, _ = claims["currency"].(string)
	if id, ok := claims["product_id"].(float64); ok {
		out.ProductID = uint(id)
	}
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = int64(iat)
	}
	return out, nil
}
