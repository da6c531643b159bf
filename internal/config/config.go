package config

import (
	"os"

	"github.com/go-yaml/yaml"

	"github.com/starcharter/orbits/internal/domain"
)

type Config struct {
	NodeInfo NodeInfo `yaml:"nodeInfo"`
	Server   Server   `yaml:"server"`
}

type NodeInfo struct {
	FQDN        string `yaml:"fqdn"`
	ServiceDID  string `yaml:"serviceDid"`
	AdminSecret string `yaml:"adminSecret"`
}

type Server struct {
	Listen          string `yaml:"listen"`
	StorageDriver   string `yaml:"storageDriver"` // postgres, memory
	PostgresDsn     string `yaml:"postgresDsn"`
	RedisAddr       string `yaml:"redisAddr"`
	RedisPassword   string `yaml:"redisPassword"`
	RedisDB         int    `yaml:"redisDB"`
	LexiconPath     string `yaml:"lexiconPath"`
	CacheTTLSeconds int    `yaml:"cacheTTLSeconds"`
	EnableTrace     bool   `yaml:"enableTrace"`
	TraceEndpoint   string `yaml:"traceEndpoint"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.NodeInfo.ServiceDID == "" {
		config.NodeInfo.ServiceDID = "did:web:" + config.NodeInfo.FQDN
	}
	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.Server.LexiconPath == "" {
		config.Server.LexiconPath = "lexicons"
	}

	return config, nil
}

// Domain trims the file-level configuration down to the runtime view.
func (c Config) Domain() domain.Config {
	return domain.Config{
		FQDN:        c.NodeInfo.FQDN,
		ServiceDID:  c.NodeInfo.ServiceDID,
		AdminSecret: c.NodeInfo.AdminSecret,
	}
}
