package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithAddr sets the listen address.
func (b *ConfigBuilder) WithAddr(addr string) *ConfigBuilder {
	b.cfg.Server.Addr = addr
	return b
}

// WithTimeouts sets the read and write timeouts.
func (b *ConfigBuilder) WithTimeouts(read, write time.Duration) *ConfigBuilder {
	b.cfg.Server.ReadTimeout = read
	b.cfg.Server.WriteTimeout = write
	return b
}

// WithPingInterval sets the WebSocket ping interval.
func (b *ConfigBuilder) WithPingInterval(d time.Duration) *ConfigBuilder {
	b.cfg.Server.PingInterval = d
	return b
}

// WithMemoryStore selects the in-memory store.
func (b *ConfigBuilder) WithMemoryStore() *ConfigBuilder {
	b.cfg.Store.Driver = DriverMemory
	b.cfg.Store.DSN = ""
	return b
}

// WithSQLiteStore selects the SQLite store at dsn.
func (b *ConfigBuilder) WithSQLiteStore(dsn string) *ConfigBuilder {
	b.cfg.Store.Driver = DriverSQLite
	b.cfg.Store.DSN = dsn
	return b
}

// WithLogLevel sets the log level name.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.cfg.Log.Level = level
	return b
}

// WithPrettyLogs enables the console log writer.
func (b *ConfigBuilder) WithPrettyLogs(enabled bool) *ConfigBuilder {
	b.cfg.Log.Pretty = enabled
	return b
}

// WithPerft sets the default perft depth and worker count.
func (b *ConfigBuilder) WithPerft(depth, workers int) *ConfigBuilder {
	b.cfg.Perft.Depth = depth
	b.cfg.Perft.Workers = workers
	return b
}
