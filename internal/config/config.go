package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type AccessConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	AccessDB   `yaml:"access_db"`
	LogConfig  `yaml:"log_config"`
	Redis      `yaml:"redis"`
	Kafka      `yaml:"kafka"`
	Solana     `yaml:"solana"`
	Platform   `yaml:"platform"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type AccessDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Kafka struct {
	Brokers    []string `yaml:"brokers"`
	Topic      string   `yaml:"topic"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	TLSEnabled bool     `yaml:"tls_enabled"`
}

type Solana struct {
	RPCEndpoint string `yaml:"rpc_endpoint"`
}

type Platform struct {
	TreasuryWallet     string `yaml:"treasury_wallet"`
	BidDepositLamports int64  `yaml:"bid_deposit_lamports"`
	AuctionSweepPeriod string `yaml:"auction_sweep_period"`
}

func MustLoad() *AccessConfig {

	configPath := os.Getenv("ACCESS_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("ACCESS_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg AccessConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
