package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name" env:"APP_NAME" env-default:"stock-forecaster"`
	Host       string            `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	Port       int               `yaml:"port" env:"PORT" env-default:"5000"`
	LogLevel   string            `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	GrpcHost   string            `yaml:"grpc_host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	GrpcPort   int               `yaml:"grpc_port" env:"GRPC_PORT" env-default:"50051"`
	Storage    MStorageConfig    `yaml:"storage"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	Forecast   MForecastConfig   `yaml:"forecast"`
	Scheduler  MSchedulerConfig  `yaml:"scheduler"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type" env:"DB_TYPE" env-default:"none"` // none, sqlite, postgres
	DBPath             string `yaml:"db_path" env:"DB_PATH" env-default:"stock_forecaster.db"`
	DBConnectionString string `yaml:"db_connection_string" env:"DATABASE_URL"`
	RetentionDays      int    `yaml:"retention_days" env:"DB_RETENTION_DAYS" env-default:"90"`
}

type MNetworkConfig struct {
	Enabled        bool     `yaml:"enabled" env:"PROXY_ENABLED"`
	Proxies        []string `yaml:"proxies" env:"PROXIES" env-separator:","`
	RequestTimeout int      `yaml:"timeout" env:"REQUEST_TIMEOUT" env-default:"15"`
	MaxRetries     int      `yaml:"retries" env:"REQUEST_RETRIES" env-default:"0"`
	UserAgent      string   `yaml:"user_agent" env:"USER_AGENT"`
}

type MDataSourceConfig struct {
	Provider     string        `yaml:"provider" env:"DATA_PROVIDER" env-default:"yahoo"` // yahoo, alpaca
	BaseURL      string        `yaml:"base_url" env:"YAHOO_BASE_URL" env-default:"https://query1.finance.yahoo.com"`
	HistoryYears int           `yaml:"history_years" env:"HISTORY_YEARS" env-default:"1"`
	Alpaca       MAlpacaConfig `yaml:"alpaca"`
	Cache        MCacheConfig  `yaml:"cache"`
}

type MAlpacaConfig struct {
	APIKey    string `yaml:"api_key" env:"ALPACA_API_KEY"`
	APISecret string `yaml:"api_secret" env:"ALPACA_API_SECRET"`
	BaseURL   string `yaml:"base_url" env:"ALPACA_DATA_URL"`
}

type MCacheConfig struct {
	Enabled    bool   `yaml:"enabled" env:"CACHE_ENABLED"`
	RedisAddr  string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password   string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	DB         int    `yaml:"redis_db" env:"REDIS_DB" env-default:"0"`
	TTLSeconds int    `yaml:"ttl_seconds" env:"CACHE_TTL_SECONDS" env-default:"900"`
}

type MForecastConfig struct {
	DefaultStrategy     string `yaml:"default_strategy" env:"FORECAST_STRATEGY" env-default:"arima"`
	HorizonDays         int    `yaml:"horizon_days" env:"FORECAST_DAYS" env-default:"30"`
	HorizonMode         string `yaml:"horizon_mode" env:"FORECAST_HORIZON_MODE" env-default:"calendar"` // calendar, trading
	SeasonalPeriod      int    `yaml:"seasonal_period" env-default:"7"`
	DecompositionPeriod int    `yaml:"decomposition_period" env-default:"30"`
	RecentCapacity      int    `yaml:"recent_capacity" env-default:"100"`
}

type MSchedulerConfig struct {
	Enabled   bool     `yaml:"enabled" env:"SCHEDULER_ENABLED"`
	Cron      string   `yaml:"cron" env:"SCHEDULER_CRON" env-default:"0 30 22 * * 1-5"`
	Watchlist []string `yaml:"watchlist" env:"WATCHLIST" env-separator:","`
}
