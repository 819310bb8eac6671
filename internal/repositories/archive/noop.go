package archive

import (
	"context"

	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/internal/migrator"
)

// Noop is the archive used when Postgres is not configured. Runs stay
// stateless beyond the remote existence check.
type Noop struct{}

var _ Repository = (*Noop)(nil)

func (*Noop) Create(context.Context, domain.SavedPost, string) error { return nil }
func (*Noop) List(context.Context, int) ([]*Record, error)           { return nil, nil }
func (*Noop) RecordRun(context.Context, migrator.Summary) error      { return nil }
