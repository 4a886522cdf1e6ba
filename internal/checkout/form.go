package checkout

import (
	"fmt"
	"strings"
	"unicode"
)

// PaymentForm is what the buyer typed. It never leaves the process.
type PaymentForm struct {
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	Holder     string `json:"holder"`
}

// Form is the payment form rendered for one product.
type Form struct {
	ProductID   uint    `json:"product_id"`
	ContainerID string  `json:"container_id"`
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// ContainerID is the element id the form is rendered into.
func ContainerID(productID uint) string {
	return fmt.Sprintf("payment-form-%d", productID)
}

// MaskCard hides all but the last four digits of a card number.
func MaskCard(number string) string {
	var digits []rune
	for _, r := range number {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	last := "****"
	if len(digits) >= 4 {
		last = string(digits[len(digits)-4:])
	}
	return strings.Repeat("**** ", 3) + last
}
