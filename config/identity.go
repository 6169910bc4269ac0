package config

// Identity 外部身分提供者（Clerk）設定
type Identity struct {
	SecretKey string `mapstructure:"SECRET_KEY" json:"secretKey" yaml:"secretKey"`
	// 留空則使用 SDK 預設的 https://api.clerk.com/v1
	APIURL string `mapstructure:"API_URL" json:"apiUrl" yaml:"apiUrl"`
	// 毫秒
	Timeout int64 `mapstructure:"TIMEOUT" json:"timeout" yaml:"timeout"`
}
