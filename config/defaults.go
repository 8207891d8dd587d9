package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./kdtree.db"
	}
	if cfg.Index.Kind == "" {
		cfg.Index.Kind = "kd"
	}
	// Compression defaults to true when unset (nil).
	if cfg.Index.Compression == nil {
		t := true
		cfg.Index.Compression = &t
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
