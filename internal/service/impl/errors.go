package impl

import "errors"

var (
	ErrSMSDelivery      = errors.New("sms delivery failed")
	ErrSMSMisconfigured = errors.New("sms provider not configured")
)
