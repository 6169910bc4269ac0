package config

type MongoDB struct {
	URI     string `mapstructure:"URI" json:"uri" yaml:"uri"`
	Options string `mapstructure:"OPTIONS" json:"options" yaml:"options"`
	// 每個租戶一個資料庫：<TenantDBPrefix><tenantId>
	TenantDBPrefix string `mapstructure:"TENANT_DB_PREFIX" json:"tenantDbPrefix" yaml:"tenantDbPrefix"`
}
