package cmd

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/client"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/config"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/log"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/storage"
)

// loadConfig reads the --config file and applies its log settings. The
// global --debug flag wins over the file.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	applyLogConfig(cfg.Log, c.Bool("debug"))
	return cfg, nil
}

func applyLogConfig(lc config.LogConfig, debugFlag bool) {
	log.ResetDebug()
	log.SetGlobalDebug(lc.Debug || debugFlag)
	for _, name := range lc.DebugServices {
		log.EnableDebugFor(name)
	}
}

// openStore opens the document store of cfg.
func openStore(cfg *config.Config) (*storage.Store, error) {
	st, err := storage.OpenDir(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("opening document store in %s: %w", cfg.StorageDir, err)
	}
	return st, nil
}

func closeStore(st *storage.Store) {
	if err := st.Close(); err != nil {
		fmt.Printf("Warning: failed to close document store: %v\n", err)
	}
}

// newClient builds an API client from the [client] section, with the
// --url flag taking precedence when the command has one.
func newClient(c *cli.Command, cfg *config.Config) *client.Client {
	baseURL := cfg.Client.BaseURL
	if u := c.String("url"); u != "" {
		baseURL = u
	}
	return client.New(baseURL, cfg.Client.Timeout.Duration)
}

// authToken returns the --token flag or the configured token.
func authToken(c *cli.Command, cfg *config.Config) string {
	if t := c.String("token"); t != "" {
		return t
	}
	return cfg.Client.Token
}
