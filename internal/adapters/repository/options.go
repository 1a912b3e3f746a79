package repository

// options collects MemStore construction settings.
type options struct {
	shardCount int
}

// Option applies a configuration option to the MemStore.
type Option func(*options)

// WithShardCount sets the number of score shards. More shards mean less
// write contention between distinct (team, judge) pairs.
func WithShardCount(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shardCount = n
		}
	}
}
