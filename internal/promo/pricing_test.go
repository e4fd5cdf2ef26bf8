package promo

import (
	"errors"
	"testing"
	"time"
)

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name         string
		oldPrice     int64
		discountRate int
		want         int64
	}{
		{"20 percent off 10 dollars", 1000, 20, 800},
		{"50 percent off", 1000, 50, 500},
		{"1 percent off small price", 99, 1, 99},
		{"99 percent off", 1000, 99, 10},
		{"truncates toward the customer paying more", 101, 50, 51},
		{"one cent product", 1, 99, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DiscountedPrice(tc.oldPrice, tc.discountRate)
			if got != tc.want {
				t.Errorf("DiscountedPrice(%d, %d) = %d, want %d", tc.oldPrice, tc.discountRate, got, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	now := time.Now()
	later := now.Add(24 * time.Hour)

	tests := []struct {
		name         string
		oldPrice     int64
		discountRate int
		startsAt     time.Time
		endsAt       time.Time
		wantErr      error
	}{
		{"valid promotion", 1000, 20, now, later, nil},
		{"zero discount", 1000, 0, now, later, ErrInvalidDiscountRate},
		{"full discount", 1000, 100, now, later, ErrInvalidDiscountRate},
		{"negative discount", 1000, -5, now, later, ErrInvalidDiscountRate},
		{"zero price", 0, 20, now, later, ErrInvalidPrice},
		{"negative price", -100, 20, now, later, ErrInvalidPrice},
		{"end equals start", 1000, 20, now, now, ErrInvalidWindow},
		{"end before start", 1000, 20, later, now, ErrInvalidWindow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.oldPrice, tc.discountRate, tc.startsAt, tc.endsAt)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
