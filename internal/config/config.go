package config

import (
	"github.com/blues/lfs/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
	Funding  FundingConfig  `mapstructure:"funding"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 链上资金与代币通道配置
type ChainConfig struct {
	Enabled       bool   `mapstructure:"enabled"`        // 是否启用链上通道
	RpcUrl        string `mapstructure:"rpc_url"`        // RPC节点URL
	PrivateKey    string `mapstructure:"private_key"`    // 私钥
	TokenAddr     string `mapstructure:"token_addr"`     // 奖励代币合约地址
	VaultAddr     string `mapstructure:"vault_addr"`     // 资金托管合约地址
	ChainId       int64  `mapstructure:"chain_id"`       // 链ID
	StartBlock    int64  `mapstructure:"start_block"`    // 监控起始区块
	Confirmations int    `mapstructure:"confirmations"`  // 确认区块数
	PollInterval  int    `mapstructure:"poll_interval"`  // 监控轮询间隔（秒）
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// FundingConfig 募资平台参数
type FundingConfig struct {
	FeeRateBps      int64  `mapstructure:"fee_rate_bps"`      // 默认平台手续费（万分比）
	FeeRecipient    string `mapstructure:"fee_recipient"`     // 手续费接收地址
	AdminAddress    string `mapstructure:"admin_address"`     // 平台管理员地址
	VoteWindowHours int    `mapstructure:"vote_window_hours"` // 社区投票窗口（小时）
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/lfs")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "launchfund")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.enabled", false)
	viper.SetDefault("chain.start_block", 0)
	viper.SetDefault("chain.confirmations", 12)
	viper.SetDefault("chain.poll_interval", 60)
	viper.SetDefault("task.interval", 60)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")
	viper.SetDefault("funding.fee_rate_bps", 250)
	viper.SetDefault("funding.fee_recipient", "platform")
	viper.SetDefault("funding.admin_address", "admin")
	viper.SetDefault("funding.vote_window_hours", 168)

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
