// Package payment is the opaque payment collaborator. Booking only ever sees
// the Confirmation it returns.
package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Jigar634859/skyportal/internal/domain"
)

const MethodDemo = "demo"

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Confirmation, error)
}

type ChargeRequest struct {
	Amount      float64
	Currency    string
	Description string
	PayerEmail  string
}

type Confirmation struct {
	Method    string
	Status    string
	Amount    float64
	Reference string
}

func (c *Confirmation) Paid() bool {
	return c != nil && c.Status == domain.PaymentStatusPaid
}

func (c *Confirmation) ToPayment() domain.Payment {
	return domain.Payment{
		Method:    c.Method,
		Status:    c.Status,
		Amount:    c.Amount,
		Reference: c.Reference,
	}
}

// DemoGateway approves every charge without moving money.
type DemoGateway struct{}

func (DemoGateway) Charge(ctx context.Context, req ChargeRequest) (*Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Amount < 0 {
		return nil, domain.Invalid("charge amount must not be negative")
	}
	return &Confirmation{
		Method:    MethodDemo,
		Status:    domain.PaymentStatusPaid,
		Amount:    req.Amount,
		Reference: "demo_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
	}, nil
}

var _ Gateway = DemoGateway{}
