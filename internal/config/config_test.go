package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"blog/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	v := newViper()
	v.Set("JWT_SECRET", "secret")

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "images", cfg.ImageDir)
	assert.False(t, cfg.MediaQueueEnabled)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("DATABASE_DRIVER", "postgres")

	v := newViper()
	v.AutomaticEnv()

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET: from-file\nBCRYPT_COST: 10\n"), 0o644))

	v := newViper()
	v.SetConfigFile(path)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestValidate(t *testing.T) {
	valid := config.Config{JWTSecret: "s", JWTTTL: time.Hour, BcryptCost: 12}
	assert.NoError(t, valid.Validate())

	noSecret := valid
	noSecret.JWTSecret = ""
	assert.ErrorContains(t, noSecret.Validate(), "JWT_SECRET")

	badCost := valid
	badCost.BcryptCost = 2
	assert.ErrorContains(t, badCost.Validate(), "BCRYPT_COST")

	queue := valid
	queue.MediaQueueEnabled = true
	assert.ErrorContains(t, queue.Validate(), "RABBITMQ_URL")
}
