package app

import (
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/medibook_backend/config"
	"github.com/Alijeyrad/medibook_backend/internal/repo"
	"github.com/Alijeyrad/medibook_backend/internal/service/appointment"
	"github.com/Alijeyrad/medibook_backend/internal/service/payment"
	"github.com/Alijeyrad/medibook_backend/pkg/iamport"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAppointmentService,
		ProvideCompensator,
		ProvidePaymentService,
	),
)

func ProvideAppointmentService(db *repo.Client, cfg *config.Config) appointment.Service {
	return appointment.New(db, cfg.SMS.Region)
}

func ProvideCompensator(gw *iamport.Client, nc *nats.Conn, cfg *config.Config) *payment.Compensator {
	return payment.NewCompensator(gw, nc, cfg.Iamport)
}

func ProvidePaymentService(
	db *repo.Client,
	gw *iamport.Client,
	compensator *payment.Compensator,
	nc *nats.Conn,
	cfg *config.Config,
) payment.Service {
	return payment.New(db, gw, compensator, nc, cfg.Iamport)
}
