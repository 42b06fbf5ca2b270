// Package conf implements drop-in settings file support for the gitcfg
// command. These are the settings of the tool itself, not the git-style
// config files it reads.
//
// # Usage
//
//	config, err := conf.DefaultSource.Read()
//	if err != nil {
//	    return err
//	}
//	fmt.Println(config.LogLevel, config.Files)
//
// For custom settings locations (e.g., testing), use ConfigSource:
//
//	cs := &conf.ConfigSource{
//	    Path:      "/custom/path/config.toml",
//	    DropInDir: "/custom/path/config.toml.d",
//	}
//	config, err := cs.Read()
//
// # Load Order
//
// Settings are loaded and applied in three layers:
//
//  1. Embedded defaults (default.toml)
//  2. Main settings file: /etc/gitcfg/config.toml
//  3. Drop-in files: /etc/gitcfg/config.toml.d/*.toml, in lexicographic order
//
// A layer only overrides the keys it sets. The files list is replaced as a
// whole, not appended to.
//
// # Internal Architecture
//
//   - configDTO: internal struct with pointer fields for TOML parsing.
//     Pointers allow distinguishing "not set" (nil) from "set to zero value".
//
//   - Config: public struct with value fields. Its Update method applies
//     DTO values and rejects unknown log levels.
//
//   - ConfigSource: orchestrates loading from multiple sources and manages
//     their merging.
package conf
