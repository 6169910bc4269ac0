package config

type Auth struct {
	// HS256 簽章金鑰，由上游登入服務簽發 token
	JWTSecret string `mapstructure:"JWT_SECRET" json:"jwtSecret" yaml:"jwtSecret"`
	Issuer    string `mapstructure:"ISSUER" json:"issuer" yaml:"issuer"`
}
