package taxconfig

import (
	"go.uber.org/fx"

	"github.com/lodgeops/lodgeops/internal/taxconfig/repository"
	"github.com/lodgeops/lodgeops/internal/taxconfig/service"
)

var Module = fx.Module("taxconfig.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
