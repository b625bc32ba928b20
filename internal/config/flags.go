package config

import "github.com/spf13/pflag"

// Flags は CLI フラグで上書きできる項目。
type Flags struct {
	env       string
	addr      string
	driver    string
	dsn       string
	logLevel  string
	logFormat string
	seed      bool
}

// AddFlags は fs に上書き用フラグを登録する。
func AddFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.env, "env", "", "environment name (development, production, ...)")
	fs.StringVar(&f.addr, "addr", "", "HTTP listen address")
	fs.StringVar(&f.driver, "driver", "", "storage driver: memory, postgres, mysql, sqlite")
	fs.StringVar(&f.dsn, "dsn", "", "storage DSN")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", "", "log format (json, console)")
	fs.BoolVar(&f.seed, "seed", false, "insert demo data on start")
	return f
}

// Apply は明示的に指定されたフラグだけを cfg に反映する。
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config) {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("env", &cfg.Env, f.env)
	set("addr", &cfg.HTTP.Addr, f.addr)
	set("driver", &cfg.Storage.Driver, f.driver)
	set("dsn", &cfg.Storage.DSN, f.dsn)
	set("log-level", &cfg.Log.Level, f.logLevel)
	set("log-format", &cfg.Log.Format, f.logFormat)
	if fs.Changed("seed") {
		cfg.Seed = f.seed
	}
}
