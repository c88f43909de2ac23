package insights

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/tradebeat/internal/insights/service"
)

var Module = fx.Module("insights",
	fx.Provide(
		service.NewService,
	),
)
