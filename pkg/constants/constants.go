package constants

const (
	AppName      = "medibook"
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "MEDIBOOK"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// NATS subjects. The trailing token is the appointment id.
const (
	SubjectCompensationFailed = "medibook.payment.compensation_failed"
	SubjectPaymentRefunded    = "medibook.payment.refunded"
	SubjectPaymentCompleted   = "medibook.payment.completed"
)
