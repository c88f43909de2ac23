package record

import (
	"github.com/smallbiznis/tradebeat/internal/record/repository"
	"github.com/smallbiznis/tradebeat/internal/record/service"
	"go.uber.org/fx"
)

var Module = fx.Module("record",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
