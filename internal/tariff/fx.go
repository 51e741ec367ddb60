package tariff

import (
	"github.com/indowater/tirta/internal/tariff/repository"
	"github.com/indowater/tirta/internal/tariff/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tariff.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
