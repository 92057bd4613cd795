package stda

import (
	"context"
)

func (z *STDA) sendEvent(e any) {
	z.events <- e
}

func (z *STDA) ReadEvent(ctx context.Context) (any, error) {
	select {
	case e := <-z.events:
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
