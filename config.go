package atom

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigFileName is the config file the atom command looks for.
	DefaultConfigFileName = "atom.toml"

	envPrefix = "ATOM"
)

func newConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault("table.shard_count", DefaultOptions.ShardCount)
	v.SetDefault("table.capacity", DefaultOptions.Capacity)
	v.SetDefault("table.page_size", DefaultOptions.PageSize)

	// ATOM_TABLE_SHARD_COUNT overrides table.shard_count.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadOptions reads table options from fileName, falling back to
// DefaultOptions for missing keys. An empty fileName reads only the
// environment. The result is validated.
func LoadOptions(fileName string) (Options, error) {
	v := newConfig()
	if fileName != "" {
		v.SetConfigFile(fileName)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("atom: read config %s: %w", fileName, err)
		}
		logger.Debug().Msgf("loaded config file %s", v.ConfigFileUsed())
	}

	options := Options{
		ShardCount: v.GetUint32("table.shard_count"),
		Capacity:   v.GetInt("table.capacity"),
		PageSize:   v.GetInt("table.page_size"),
	}
	if err := checkOptions(options); err != nil {
		return Options{}, err
	}
	return options, nil
}
