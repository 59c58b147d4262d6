package charge

import (
	"go.uber.org/fx"

	"github.com/lodgeops/lodgeops/internal/charge/repository"
	"github.com/lodgeops/lodgeops/internal/charge/service"
)

var Module = fx.Module("charge.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
