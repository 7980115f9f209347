package unlocksettler

import (
	"errors"
	"time"

	"github.com/Keith-CY/force-bridge/tronwallet"
)

const MinSweepInterval = 100 * time.Millisecond

var ErrFeeLimitNotPositive = errors.New("trc20 fee limit must be positive")

type Config struct {
	// Committee whose every key signs each outbound transaction.
	Committee tronwallet.Committee

	// Fee ceiling (in sun) for trc20 transfer invocations.
	FeeLimit int64

	// Fixed delay between sweep iterations.
	SweepInterval time.Duration

	// Optional random extra delay per interval.
	Jitter time.Duration
}

func (cfg *Config) Validate() error {
	if err := cfg.Committee.Validate(); err != nil {
		return err
	}
	if cfg.FeeLimit <= 0 {
		return ErrFeeLimitNotPositive
	}
	return nil
}
