package constant

const (
	ServiceName = "eggseed"

	// EnvPrefix is the envconfig prefix, so variables read as EGGSEED_*.
	EnvPrefix = "eggseed"
)
