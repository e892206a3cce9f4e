// Package config provides process settings and the file-backed source of
// event bindings.
//
// Settings come from EVFIRE_* environment variables. The events file is TOML
// or YAML (chosen by extension) and may pull in other files with "@include".
// Bindings for an environment live under events.<environment>:
//
//	[events.production]
//	"github.com/dshills/evfire/internal/shop.OrderPlaced" = [
//	    "github.com/dshills/evfire/internal/shop.EmailReceipt",
//	    "github.com/dshills/evfire/internal/shop.ReserveInventory",
//	    "lua:audit.lua",
//	]
//
// A file without the requested environment is an error; an environment with
// an empty table is not.
package config
