package repository

// storeConfig collects the tunables applied by StoreOption.
type storeConfig struct {
	shardCount int
}

// StoreOption applies a configuration option to the ReportStore.
type StoreOption func(*storeConfig)

// WithShardCount sets the number of shards in the store.
func WithShardCount(n int) StoreOption {
	return func(c *storeConfig) {
		if n > 0 {
			c.shardCount = n
		}
	}
}
