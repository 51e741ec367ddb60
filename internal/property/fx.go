package property

import (
	"github.com/indowater/tirta/internal/property/repository"
	"github.com/indowater/tirta/internal/property/service"
	"go.uber.org/fx"
)

var Module = fx.Module("property.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
