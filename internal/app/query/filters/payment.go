// internal/app/query/filters/payment.go
package filters

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Payment-status filter values accepted from callers.
const (
	PaymentNotStarted = "not started"
	PaymentStarted    = "started"
	PaymentCaptured   = "captured"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
)

// PaymentStatus compiles the payment-status value list into a disjunction
// over the (payment_initiated, payment_info.status) pair:
//
//	not started → payment_initiated == false
//	started     → payment_initiated == true and status not in any terminal state
//	captured    → payment_info.status == "captured"
//	failed      → payment_info.status == "failed"
//	refunded    → payment_info.status == "refunded"
//
// Unknown values compile to nothing.
func (p Paths) PaymentStatus(values []string) bson.M {
	var or []bson.M
	for _, v := range values {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case PaymentNotStarted:
			or = append(or, bson.M{p.Application + "payment_initiated": false})
		case PaymentStarted:
			or = append(or, bson.M{
				p.Application + "payment_initiated": true,
				p.Application + "payment_info.status": bson.M{
					"$nin": []string{PaymentCaptured, PaymentFailed, PaymentRefunded},
				},
			})
		case PaymentCaptured:
			or = append(or, bson.M{p.Application + "payment_info.status": PaymentCaptured})
		case PaymentFailed:
			or = append(or, bson.M{p.Application + "payment_info.status": PaymentFailed})
		case PaymentRefunded:
			or = append(or, bson.M{p.Application + "payment_info.status": PaymentRefunded})
		}
	}
	switch len(or) {
	case 0:
		return nil
	case 1:
		return or[0]
	default:
		return bson.M{"$or": or}
	}
}

// NeedsPaymentDateOverride reports whether the payment-status values
// redirect the date-range predicate from the enquiry date to the
// payment's own timestamp. This is the case for the terminal statuses
// (captured/failed/refunded), whose dates describe when the payment
// event happened, not when the lead enquired.
func NeedsPaymentDateOverride(values []string) bool {
	for _, v := range values {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case PaymentCaptured, PaymentFailed, PaymentRefunded:
			return true
		}
	}
	return false
}
