package config

// Outbox 身分帳號刪除補償任務
type Outbox struct {
	// robfig/cron 秒級表示式，例如 "*/30 * * * * *"
	Schedule         string `mapstructure:"SCHEDULE" json:"schedule" yaml:"schedule"`
	BatchSize        int    `mapstructure:"BATCH_SIZE" json:"batchSize" yaml:"batchSize"`
	MaxAttempts      int    `mapstructure:"MAX_ATTEMPTS" json:"maxAttempts" yaml:"maxAttempts"`
	BaseDelaySeconds int64  `mapstructure:"BASE_DELAY_SECONDS" json:"baseDelaySeconds" yaml:"baseDelaySeconds"`
	MaxDelaySeconds  int64  `mapstructure:"MAX_DELAY_SECONDS" json:"maxDelaySeconds" yaml:"maxDelaySeconds"`
	LeaseSeconds     int64  `mapstructure:"LEASE_SECONDS" json:"leaseSeconds" yaml:"leaseSeconds"`
}
