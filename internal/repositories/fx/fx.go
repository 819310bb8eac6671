package fx

import (
	"github.com/vampirepapi/link2notion/internal/repositories/archive"
	"go.uber.org/fx"
)

var Module = fx.Options(
	archive.Module,
)
