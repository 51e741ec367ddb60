package meter

import (
	"github.com/indowater/tirta/internal/meter/repository"
	"github.com/indowater/tirta/internal/meter/service"
	"go.uber.org/fx"
)

var Module = fx.Module("meter.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
