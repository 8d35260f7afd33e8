package configs

import "time"

var (
	ServerAddress = "localhost:8080"
	RedisAddress  = "localhost:6379"

	// Probe request literals

	ProbeRequestPath = "/api/test"
	ProbeMessage     = "hello world"

	AuthTokenHeader = "X-Auth-Token"
	MaxBodyBytes    = int64(1 << 20)

	// Redis keys

	ServerSeenTokenKey = "auth:token:%s"
)

const (
	DefaultTimePad  = 5 * time.Minute
	TimestampLayout = "2006-01-02T15:04:05.000Z"
	TokenSeparator  = "|"
)
