package redis

import "time"

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultPoolSize       = 10
	DefaultMinIdleConns   = 2
)
