package rentalsvc

import (
	"context"
	"log/slog"
	"time"

	"bookrent/model"
)

// OverdueLister is the slice of the ledger the sweeper reads.
type OverdueLister interface {
	ListOverdue(ctx context.Context, now time.Time) ([]model.Rental, error)
}

type Sweeper interface {
	SweepOverdue(ctx context.Context) (int, error)
}

type sweeper struct {
	r   OverdueLister
	log *slog.Logger
	now func() time.Time
}

func NewSweeper(r OverdueLister, log *slog.Logger) Sweeper {
	return &sweeper{r: r, log: log, now: time.Now}
}

// SweepOverdue logs every open rental past its due date.
func (c *sweeper) SweepOverdue(ctx context.Context) (int, error) {
	rows, err := c.r.ListOverdue(ctx, c.now())
	if err != nil {
		return 0, err
	}
	for _, m := range rows {
		c.log.Warn("overdue rental",
			"rental_id", m.ID,
			"book_title", m.BookTitle,
			"user_id", m.UserID,
			"due_date", m.DueDate,
		)
	}
	return len(rows), nil
}
