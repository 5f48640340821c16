package clickhouse

import "time"

// ClientOption configures Client.
type ClientOption func(*ClientConfig)

// ClientConfig describes the connection to the observation archive.
// Timeouts and settings are sent in the DSN.
type ClientConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	UseHTTP  bool

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	QueryTimeout time.Duration // max_execution_time, whole seconds

	// async_insert lets the server buffer the collector's small batches.
	AsyncInsert  bool
	WaitForAsync bool
}

func WithHost(host string) ClientOption {
	return func(c *ClientConfig) { c.Host = host }
}

func WithPort(port int) ClientOption {
	return func(c *ClientConfig) { c.Port = port }
}

func WithDatabase(database string) ClientOption {
	return func(c *ClientConfig) { c.Database = database }
}

func WithCredentials(user, password string) ClientOption {
	return func(c *ClientConfig) {
		c.User = user
		c.Password = password
	}
}

// WithHTTP switches to the HTTP interface (port 8123) instead of native.
func WithHTTP(useHTTP bool) ClientOption {
	return func(c *ClientConfig) { c.UseHTTP = useHTTP }
}

// WithTimeouts sets the dial and read timeouts; zero keeps the default.
func WithTimeouts(dial, read time.Duration) ClientOption {
	return func(c *ClientConfig) {
		if dial > 0 {
			c.DialTimeout = dial
		}
		if read > 0 {
			c.ReadTimeout = read
		}
	}
}

// WithQueryTimeout caps server-side execution of archive reads.
func WithQueryTimeout(d time.Duration) ClientOption {
	return func(c *ClientConfig) { c.QueryTimeout = d }
}

// WithAsyncInsert configures async_insert and whether inserts wait for the flush.
func WithAsyncInsert(enabled, wait bool) ClientOption {
	return func(c *ClientConfig) {
		c.AsyncInsert = enabled
		c.WaitForAsync = wait
	}
}
