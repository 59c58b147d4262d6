package booking

import (
	"go.uber.org/fx"

	"github.com/lodgeops/lodgeops/internal/booking/repository"
	"github.com/lodgeops/lodgeops/internal/booking/service"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
