package coupon

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("coupon not found")
	ErrDuplicate = errors.New("coupon code already exists")
)

type Coupon struct {
	ID             int        `json:"id"`
	Code           string     `json:"code"`
	Discount       int        `json:"discount"`
	MaxUsageCount  *int       `json:"max_usage_count"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	DateCreated    *time.Time `json:"date_created,omitempty"`
	DateUpdated    *time.Time `json:"date_updated,omitempty"`
}

// Request is the body accepted by create and update.
type Request struct {
	Code          string `json:"code" binding:"required,max=64"`
	Discount      int    `json:"discount" binding:"required,min=1,max=100"`
	MaxUsageCount *int   `json:"max_usage_count" binding:"omitempty,min=1"`
}

type Response struct {
	ID            int    `json:"id"`
	Code          string `json:"code"`
	Discount      int    `json:"discount"`
	MaxUsageCount *int   `json:"max_usage_count"`
}

func ToResponse(c Coupon) Response {
	return Response{
		ID:            c.ID,
		Code:          c.Code,
		Discount:      c.Discount,
		MaxUsageCount: c.MaxUsageCount,
	}
}
