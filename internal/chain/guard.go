package chain

import (
	"context"
	"fmt"
	"math/big"
)

// Guard refuses state-changing calls when the backend is connected to a
// network other than the deployment network. A wallet can switch chains at
// any time, so callers check before every write, not once at startup.
type Guard struct {
	Expected *big.Int
}

func NewGuard(expectedChainID uint64) *Guard {
	return &Guard{Expected: new(big.Int).SetUint64(expectedChainID)}
}

func (g *Guard) Check(ctx context.Context, b Backend) error {
	id, err := b.ChainID(ctx)
	if err != nil {
		return err
	}
	if id.Cmp(g.Expected) != 0 {
		return fmt.Errorf("%w: connected to chain %s, expected %s", ErrWrongNetwork, id, g.Expected)
	}
	return nil
}
