// Package gateway holds the outbound direct-message port used by the
// manual donor SOS action.
package gateway

import "context"

// SMSGateway delivers one-off text messages to a donor's contact number.
// The notification dispatcher never uses it; it serves only the manual SOS
// action where a requester picks a single donor.
type SMSGateway interface {
	Send(ctx context.Context, contact string, message string) error
}
