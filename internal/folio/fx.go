package folio

import (
	"go.uber.org/fx"

	"github.com/lodgeops/lodgeops/internal/folio/service"
)

var Module = fx.Module("folio.service",
	fx.Provide(service.New),
)
