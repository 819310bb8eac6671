package archive

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vampirepapi/link2notion/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Module("archive_repository",
	fx.Provide(
		func(pool *pgxpool.Pool, logger logger.Logger) Repository {
			if pool == nil {
				return &Noop{}
			}
			return NewPgx(pool, logger)
		},
	),
)
