package config

type Cache struct {
	TTLSeconds int64  `mapstructure:"TTL_SECONDS" json:"ttlSeconds" yaml:"ttlSeconds"`
	KeyPrefix  string `mapstructure:"KEY_PREFIX" json:"keyPrefix" yaml:"keyPrefix"`
}
