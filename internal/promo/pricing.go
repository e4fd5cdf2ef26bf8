// Package promo holds promotion pricing rules
package promo

import (
	"errors"
	"time"
)

var (
	ErrInvalidDiscountRate = errors.New("discount rate must be between 1 and 99")
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrInvalidWindow       = errors.New("promotion end must be after its start")
)

// DiscountedPrice computes the promotional price in integer cents:
// newPrice = oldPrice - oldPrice*discountRate/100
func DiscountedPrice(oldPrice int64, discountRate int) int64 {
	return oldPrice - oldPrice*int64(discountRate)/100
}

// Validate checks a promotion's pricing parameters and time window
func Validate(oldPrice int64, discountRate int, startsAt, endsAt time.Time) error {
	if discountRate < 1 || discountRate > 99 {
		return ErrInvalidDiscountRate
	}
	if oldPrice <= 0 {
		return ErrInvalidPrice
	}
	if !endsAt.After(startsAt) {
		return ErrInvalidWindow
	}
	return nil
}
