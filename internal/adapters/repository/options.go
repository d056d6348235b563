// Package repository defines the evaluation task store interface and errors.
package repository

// settings collects tunables applied before the store is built.
type settings struct {
	shardCount int
}

// Option applies a configuration option to the MemStore.
type Option func(*settings)

// WithShardCount sets the number of shards in the task map.
func WithShardCount(count int) Option {
	return func(s *settings) {
		if count > 0 {
			s.shardCount = count
		}
	}
}
