// Package pricing turns a combo's base price into the three numbers the
// order engine freezes at creation time: what each party pays and what
// the restaurant receives. Promo-code discount math lives behind the
// Resolver boundary; the engine treats the quote as opaque input.
package pricing

import (
	"context"
	"errors"
)

var ErrInvalidPrice = errors.New("invalid combo price")

// Quote is the frozen pricing for one date order.
type Quote struct {
	CreatorCharge    int64 `json:"creator_charge"`
	ApplicantCharge  int64 `json:"applicant_charge"`
	RestaurantPayout int64 `json:"restaurant_payout"`
}

// Resolver computes a quote from a combo price and an optional promo code.
type Resolver interface {
	Resolve(ctx context.Context, comboPrice int64, promoCode string) (Quote, error)
}

// DefaultCommission is the platform's cut of the combo price.
const DefaultCommission = 0.15

type commissionResolver struct {
	commission float64
}

// NewResolver returns the standard resolver: the combo price splits
// evenly between the two parties and the restaurant is paid the price
// minus the platform commission. Promo codes are accepted but resolve to
// no discount here; a discounting resolver plugs in behind the same
// interface.
func NewResolver(commission float64) Resolver {
	if commission <= 0 || commission >= 1 {
		commission = DefaultCommission
	}
	return &commissionResolver{commission: commission}
}

func (r *commissionResolver) Resolve(_ context.Context, comboPrice int64, _ string) (Quote, error) {
	if comboPrice <= 0 || comboPrice%2 != 0 {
		return Quote{}, ErrInvalidPrice
	}
	half := comboPrice / 2
	payout := comboPrice - int64(float64(comboPrice)*r.commission)
	return Quote{
		CreatorCharge:    half,
		ApplicantCharge:  half,
		RestaurantPayout: payout,
	}, nil
}
