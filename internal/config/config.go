package config

// Version information, set at build time

var Version = "development"
var CommitHash = "development"
var BuildTimestamp = "0000-00-00T00:00:00Z"

// Environment variable prefix used by the env loader

var DefaultNamePrefix = "AUTHLINK_"

// Chat listener modes

const (
	BotModePull = "pull"
	BotModePush = "push"
)

// Main app config

type Config struct {
	AppURL       string             `description:"The public base URL of the callback listener." yaml:"appUrl" validate:"required,url"`
	Server       ServerConfig       `description:"Callback listener configuration." yaml:"server"`
	OAuth        OAuthConfig        `description:"OAuth provider configuration." yaml:"oauth"`
	Bot          BotConfig          `description:"Chat bot configuration." yaml:"bot"`
	Metrics      MetricsConfig      `description:"Metrics configuration." yaml:"metrics"`
	Log          LogConfig          `description:"Logging configuration." yaml:"log"`
	Experimental ExperimentalConfig `description:"Experimental features, use with caution." yaml:"experimental"`
}

type ServerConfig struct {
	Port            int      `description:"The port on which the callback listener runs." yaml:"port" validate:"min=1,max=65535"`
	Address         string   `description:"The address on which the callback listener binds." yaml:"address" validate:"required"`
	CallbackPath    string   `description:"The path of the OAuth callback route." yaml:"callbackPath" validate:"required,startswith=/"`
	TrustedProxies  []string `description:"Comma-separated list of trusted proxy addresses." yaml:"trustedProxies"`
	ShutdownTimeout int      `description:"Seconds to wait for in-flight requests on shutdown." yaml:"shutdownTimeout" validate:"min=0"`
}

type OAuthConfig struct {
	Provider         string            `description:"OAuth provider type (google, github, oidc or generic)." yaml:"provider" validate:"required,oneof=google github oidc generic"`
	ClientID         string            `description:"OAuth client ID." yaml:"clientId" validate:"required"`
	ClientSecret     string            `description:"OAuth client secret." yaml:"clientSecret"`
	ClientSecretFile string            `description:"Path to the file containing the OAuth client secret." yaml:"clientSecretFile"`
	Scopes           []string          `description:"OAuth scopes." yaml:"scopes"`
	RedirectURL      string            `description:"OAuth redirect URL, defaults to the app URL plus the callback path." yaml:"redirectUrl"`
	AuthURL          string            `description:"OAuth authorization URL (generic provider)." yaml:"authUrl"`
	TokenURL         string            `description:"OAuth token URL (generic provider)." yaml:"tokenUrl"`
	Issuer           string            `description:"OIDC issuer URL (oidc provider)." yaml:"issuer"`
	AuthParams       map[string]string `description:"Extra query parameters added to the authorization URL." yaml:"authParams"`
	StateTTL         int               `description:"Seconds a pending authorization stays valid." yaml:"stateTtl" validate:"min=1"`
	SweepInterval    int               `description:"Seconds between expired state sweeps." yaml:"sweepInterval" validate:"min=1"`
	ExchangeTimeout  int               `description:"Seconds allowed for the code exchange." yaml:"exchangeTimeout" validate:"min=1"`
	Name             string            `description:"Provider display name." yaml:"name"`
	Insecure         bool              `description:"Skip TLS verification when talking to the provider." yaml:"insecure"`
}

type BotConfig struct {
	Token     string        `description:"Telegram bot token." yaml:"token"`
	TokenFile string        `description:"Path to the file containing the Telegram bot token." yaml:"tokenFile"`
	Mode      string        `description:"How updates are received (pull or push)." yaml:"mode" validate:"required,oneof=pull push"`
	Poll      PollConfig    `description:"Pull mode configuration." yaml:"poll"`
	Webhook   WebhookConfig `description:"Push mode configuration." yaml:"webhook"`
	APIURL    string        `description:"Telegram Bot API endpoint template." yaml:"apiUrl"`
	Debug     bool          `description:"Log raw Bot API traffic." yaml:"debug"`
}

type PollConfig struct {
	Timeout int `description:"Long polling timeout in seconds." yaml:"timeout" validate:"min=0"`
}

type WebhookConfig struct {
	URL                string `description:"Public URL the platform calls with updates." yaml:"url"`
	Address            string `description:"The address on which the webhook listener binds." yaml:"address"`
	Port               int    `description:"The port on which the webhook listener runs." yaml:"port" validate:"min=0,max=65535"`
	Path               string `description:"The path of the webhook route." yaml:"path"`
	SecretToken        string `description:"Secret the platform echoes in every webhook request." yaml:"secretToken"`
	DropPendingUpdates bool   `description:"Drop updates queued while the bot was offline when the webhook is set or deleted." yaml:"dropPendingUpdates"`
}

type MetricsConfig struct {
	Enabled bool   `description:"Expose prometheus metrics." yaml:"enabled"`
	Path    string `description:"The path of the metrics route." yaml:"path"`
}

type LogConfig struct {
	Level   string     `description:"Log level (trace, debug, info, warn, error)." yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic"`
	Json    bool       `description:"Enable JSON formatted logs." yaml:"json"`
	Streams LogStreams `description:"Configuration for specific log streams." yaml:"streams"`
}

type LogStreams struct {
	HTTP  LogStreamConfig `description:"HTTP request logging." yaml:"http"`
	App   LogStreamConfig `description:"Application logging." yaml:"app"`
	Audit LogStreamConfig `description:"Authorization audit logging." yaml:"audit"`
	Bot   LogStreamConfig `description:"Chat update logging." yaml:"bot"`
}

type LogStreamConfig struct {
	Enabled bool   `description:"Enable this log stream." yaml:"enabled"`
	Level   string `description:"Log level for this stream, defaults to the global level." yaml:"level"`
}

type ExperimentalConfig struct {
	ConfigFile string `description:"Path to config file." yaml:"-"`
}

// Default configuration

func NewDefaultConfiguration() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Address:         "0.0.0.0",
			CallbackPath:    "/oauth2callback",
			ShutdownTimeout: 10,
		},
		OAuth: OAuthConfig{
			Provider:        "google",
			StateTTL:        600,
			SweepInterval:   60,
			ExchangeTimeout: 30,
		},
		Bot: BotConfig{
			Mode: BotModePull,
			Poll: PollConfig{
				Timeout: 30,
			},
			Webhook: WebhookConfig{
				Address:            "0.0.0.0",
				Port:               8443,
				Path:               "/webhook",
				DropPendingUpdates: true,
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level: "info",
			Json:  false,
			Streams: LogStreams{
				HTTP:  LogStreamConfig{Enabled: true},
				App:   LogStreamConfig{Enabled: true},
				Audit: LogStreamConfig{Enabled: true},
				Bot:   LogStreamConfig{Enabled: true},
			},
		},
		Experimental: ExperimentalConfig{
			ConfigFile: "",
		},
	}
}
