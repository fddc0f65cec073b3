package utils

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig reads a .env file from the given path (when present) and binds
// environment variables into viper so flags and env share one view.
func LoadConfig(path string) {
	if err := godotenv.Load(path + "/.env"); err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warn("[CONFIG] failed to load .env file")
		}
	}

	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// CreateFolder creates every given directory, ignoring ones that exist.
func CreateFolder(folders ...string) error {
	for _, folder := range folders {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return err
		}
	}
	return nil
}
