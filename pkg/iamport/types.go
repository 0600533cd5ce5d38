package iamport

import "time"

// Payment is the authoritative gateway record for one transaction.
type Payment struct {
	ImpUID      string
	MerchantUID string
	Amount      int64
	Status      string
	PaidAt      time.Time
}

// Gateway payment statuses.
const (
	StatusReady     = "ready"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// AccessToken is a short-lived bearer token issued by /users/getToken.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

type envelope[T any] struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Response *T     `json:"response"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Now         int64  `json:"now"`
	ExpiredAt   int64  `json:"expired_at"`
}

type paymentResponse struct {
	ImpUID      string `json:"imp_uid"`
	MerchantUID string `json:"merchant_uid"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
	PaidAt      int64  `json:"paid_at"`
}

type cancelResponse struct {
	ImpUID       string `json:"imp_uid"`
	MerchantUID  string `json:"merchant_uid"`
	CancelAmount int64  `json:"cancel_amount"`
	Status       string `json:"status"`
}
