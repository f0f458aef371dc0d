package history

import "github.com/kilianp07/solarcar/core/factory"

var storeRegistry = factory.NewRegistry[Store]("history store")

type fileConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	MaxRecords int    `json:"max_records"`
}

func init() {
	_ = RegisterStore("memory", func(conf map[string]any) (Store, error) {
		var c fileConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewMemoryStore(c.MaxRecords), nil
	})
	_ = RegisterStore("jsonl", func(conf map[string]any) (Store, error) {
		c := fileConf{Path: "calculations.jsonl"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
		}
		return NewJSONLStore(c.Path)
	})
	_ = RegisterStore("sqlite", func(conf map[string]any) (Store, error) {
		c := fileConf{Path: "calculations.db"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
}

// RegisterStore adds a store factory identified by name.
func RegisterStore(name string, f factory.Factory[Store]) error {
	return storeRegistry.Register(name, f)
}

// StoreTypes lists the registered store types.
func StoreTypes() []string { return storeRegistry.Names() }

// NewStore creates the store described by cfg. An empty type selects an
// unbounded memory store.
func NewStore(cfg factory.ModuleConfig) (Store, error) {
	if cfg.Type == "" {
		return NewMemoryStore(0), nil
	}
	return storeRegistry.Create(cfg)
}
