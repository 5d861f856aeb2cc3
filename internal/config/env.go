package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvAddr = "BOUNCESIM_ADDR"
	EnvFPS  = "BOUNCESIM_FPS"
	EnvData = "BOUNCESIM_DATA"
)

// ApplyEnv loads the given dotenv files, if they exist, and overrides the
// server address, frame rate and data directory from the environment.
// Variables already set in the process win over the files.
func (c *Config) ApplyEnv(files ...string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		if err := godotenv.Load(present...); err != nil {
			return err
		}
	}

	c.Server.Addr = getEnv(EnvAddr, c.Server.Addr)
	c.Run.FPS = getEnvInt(EnvFPS, c.Run.FPS)
	c.Run.DataDir = getEnv(EnvData, c.Run.DataDir)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
