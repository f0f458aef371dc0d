// Package factory provides a small generic registry used to instantiate
// pluggable modules, such as metrics sinks and history stores, from
// configuration. A module is selected by a type string and receives a map of
// raw settings which its factory decodes into a typed struct.
//
// Example usage:
//
//	reg := factory.NewRegistry[history.Store]("history store")
//	reg.Register("jsonl", func(conf map[string]any) (history.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return history.NewJSONLStore(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "calc.jsonl"}})
package factory
