package services_test

import (
	"github.com/notethatdown/notethatdown-api/config"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
)

func init() {
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

const (
	testUserID = "0b7c5a1e-2f0c-4c59-9a0e-8d4f2b9e6a13"
	testEmail  = "ada@example.com"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{BaseURL: "https://notethatdown.com"},
	}
}
