package payment

import (
	"go.uber.org/fx"

	"github.com/lodgeops/lodgeops/internal/payment/repository"
	"github.com/lodgeops/lodgeops/internal/payment/service"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
