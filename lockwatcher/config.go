package lockwatcher

import "time"

const MinScanInterval = 100 * time.Millisecond

type Config struct {
	// Bridge account whose incoming transfers are lock events.
	AccountAddress string

	// Fixed delay between scan iterations.
	ScanInterval time.Duration

	// Optional random extra delay added to each interval, to avoid
	// thundering against the indexer when several relays restart at once.
	Jitter time.Duration
}
