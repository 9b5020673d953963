package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/hydro-mc/hydro/server/transport"
)

// UserConfig is the on-disk, TOML-serialisable configuration for a hydro
// server: an overlay applied on top of the defaults Config.New fills in.
type UserConfig struct {
	Network struct {
		// Address is the address the WebSocket listener binds to.
		Address string
		// StaticDir, if set, serves the client bundle from that directory
		// alongside the WebSocket endpoint.
		StaticDir string
	}
	Server struct {
		Name       string
		TPS        int
		LoadRadius int
		ScriptPath string
		AssetDir   string
	}
}

// DefaultUserConfig returns a configuration with every field set to its
// out-of-the-box default.
func DefaultUserConfig() UserConfig {
	var c UserConfig
	c.Network.Address = ":8080"
	c.Network.StaticDir = "web"
	c.Server.Name = "hydro"
	c.Server.TPS = 30
	c.Server.LoadRadius = 4
	c.Server.ScriptPath = "scripts/main.lua"
	c.Server.AssetDir = "assets"
	return c
}

// Config converts a UserConfig into a Config ready for Config.New.
func (uc UserConfig) Config(log *slog.Logger) Config {
	return Config{
		Log:        log,
		Name:       uc.Server.Name,
		TPS:        uc.Server.TPS,
		LoadRadius: uc.Server.LoadRadius,
		ScriptPath: uc.Server.ScriptPath,
		AssetDir:   uc.Server.AssetDir,
		Listeners:  []func(Config) (*transport.Listener, error){TCPListener(uc.Network.Address, uc.Network.StaticDir)},
	}
}

// LoadUserConfig reads a TOML configuration file at path. If the file does
// not yet exist, it is created with DefaultUserConfig's values, matching
// the teacher's create-on-first-run convention for its own server
// properties file.
func LoadUserConfig(path string) (UserConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		c := DefaultUserConfig()
		data, err := toml.Marshal(c)
		if err != nil {
			return c, fmt.Errorf("marshal default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return c, fmt.Errorf("write default config: %w", err)
		}
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return UserConfig{}, fmt.Errorf("read config: %w", err)
	}
	var c UserConfig
	if err := toml.Unmarshal(data, &c); err != nil {
		return UserConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
