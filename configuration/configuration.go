package configuration

type Configuration struct {
	HttpAddr          string  `usage:"HTTP address"`
	Backend           string  `usage:"key-value backend: memory | redis | sqlite"`
	RedisAddr         string  `usage:"redis address, host:port"`
	RedisPassword     string  `usage:"redis password"`
	RedisDB           int     `usage:"redis logical database"`
	SqlitePath        string  `usage:"sqlite database file, ':memory:' for a volatile one"`
	ApiKey            string  `usage:"API key, required in X-Api-Key when set"`
	ApiSecret         string  `usage:"API secret, required in X-Api-Secret when set"`
	EnableCompression bool    `usage:"gzip responses when the client accepts it"`
	RateLimit         float64 `usage:"max requests per second, 0 disables the limit"`
	RateBurst         int     `usage:"requests allowed in a burst over RateLimit"`
	LogMutations      bool    `usage:"log every insert, update and delete"`
	Version           bool    `usage:"show version and exit"`
	ShowBanner        bool    `usage:"show big banner"`
	ShowConfig        bool    `usage:"print config"`
}

func Default() *Configuration {
	return &Configuration{
		HttpAddr:          "127.0.0.1:8080",
		Backend:           "memory",
		RedisAddr:         "127.0.0.1:6379",
		SqlitePath:        "recordstore.db",
		EnableCompression: true,
		RateBurst:         100,
		ShowBanner:        true,
		ShowConfig:        false,
	}
}
