package customer

import (
	"github.com/indowater/tirta/internal/customer/repository"
	"github.com/indowater/tirta/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
