package notifier

import (
	"github.com/smallbiznis/failrelay/internal/notifier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notifier.service",
	fx.Provide(service.New),
)
