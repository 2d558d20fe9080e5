package domain

import "fmt"

// DeliveryMode tags a time slot with how the order reaches the customer.
type DeliveryMode string

const (
	// ModeDrive is a drive-up pickup window at the store.
	ModeDrive DeliveryMode = "DRIVE"
	// ModeDelivery is a scheduled home delivery window.
	ModeDelivery DeliveryMode = "DELIVERY"
	// ModeDeliveryToday is a same-day delivery window.
	ModeDeliveryToday DeliveryMode = "DELIVERY_TODAY"
	// ModeDeliveryASAP is an as-soon-as-possible delivery window.
	ModeDeliveryASAP DeliveryMode = "DELIVERY_ASAP"
)

// ParseDeliveryMode maps a wire value onto a known mode.
func ParseDeliveryMode(s string) (DeliveryMode, error) {
	switch DeliveryMode(s) {
	case ModeDrive, ModeDelivery, ModeDeliveryToday, ModeDeliveryASAP:
		return DeliveryMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDeliveryMode, s)
}
