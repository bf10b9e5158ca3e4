package source

// Default resource paths of the car park guidance web service.
const (
	DefaultSummaryPath = "/VccWebService/JSon/PGS_GetPublicCarparksStallCount"
	DefaultDetailPath  = "/VccWebService/JSon/PGS_GetStallsCurrentState"
)

// Config holds configuration for the upstream API client.
type Config struct {
	// BaseURL is the root of the upstream web service.
	BaseURL string `mapstructure:"base_url" default:"" validate:"required,url"`
	// SummaryPath is the resource returning stall counts per car park.
	SummaryPath string `mapstructure:"summary_path" default:"/VccWebService/JSon/PGS_GetPublicCarparksStallCount"`
	// DetailPath is the resource returning the state of every stall.
	DetailPath string `mapstructure:"detail_path" default:"/VccWebService/JSon/PGS_GetStallsCurrentState"`
	// Username enables basic authentication when set.
	Username string `mapstructure:"username" default:""`
	// Password is the basic authentication password.
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds bounds each request. Zero means no timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"0" validate:"gte=0"`
	// BreakerThreshold is the number of consecutive failures that opens the breaker. Zero disables it.
	BreakerThreshold uint32 `mapstructure:"breaker_threshold" default:"5"`
	// BreakerTimeoutSeconds is how long the breaker stays open before probing again.
	BreakerTimeoutSeconds int `mapstructure:"breaker_timeout_seconds" default:"30" validate:"gte=0"`
}
