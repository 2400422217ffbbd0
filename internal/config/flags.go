package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the client command line.
//
// Flags:
//
//	-a notes API base URL
//	-request-timeout outbound request timeout (e.g. "10s")
//	-access-token / -refresh-token bearer credentials
//	-storage queue backend: sqlite or file
//	-d SQLite DSN
//	-queue-file / -dead-letter-file file backend paths
//	-sync-interval, -max-attempts, -backoff-base, -backoff-max sync job settings
//	-probe-url, -probe-interval, -probe-timeout connectivity probe settings
//	-control-address local control API address in format [host]:[port]
//	-log-file, -log-level logging
//	-tui enable the terminal status bar
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("notes-sync", flag.ContinueOnError)

	var (
		controlAddress                         NetAddress
		adapterAddress, accessToken, refresh   string
		requestTimeout                         time.Duration
		driver, dsn, queuePath, deadLetterPath string
		syncInterval, backoffBase, backoffMax  time.Duration
		maxAttempts                            int
		probeURL                               string
		probeInterval, probeTimeout            time.Duration
		logFile, logLevel                      string
		tui                                    bool
		jsonConfigPath                         string
	)

	fs.StringVar(&adapterAddress, "a", "", "Notes API base URL")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s)")
	fs.StringVar(&accessToken, "access-token", "", "Bearer access token")
	fs.StringVar(&refresh, "refresh-token", "", "Refresh token")
	fs.StringVar(&driver, "storage", "", "Queue storage driver: sqlite or file")
	fs.StringVar(&dsn, "d", "", "SQLite DSN")
	fs.StringVar(&queuePath, "queue-file", "", "Queue file path (file driver)")
	fs.StringVar(&deadLetterPath, "dead-letter-file", "", "Abandoned actions file path (file driver)")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Scheduled sync interval")
	fs.IntVar(&maxAttempts, "max-attempts", 0, "Max dispatch attempts per action")
	fs.DurationVar(&backoffBase, "backoff-base", 0, "First retry backoff delay")
	fs.DurationVar(&backoffMax, "backoff-max", 0, "Retry backoff cap")
	fs.StringVar(&probeURL, "probe-url", "", "Reachability probe URL")
	fs.DurationVar(&probeInterval, "probe-interval", 0, "Reachability probe interval")
	fs.DurationVar(&probeTimeout, "probe-timeout", 0, "Reachability probe timeout")
	fs.Var(&controlAddress, "control-address", "Control API address host:port")
	fs.StringVar(&logFile, "log-file", "", "Rotating log file path")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.BoolVar(&tui, "tui", false, "Show terminal status bar")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogFile:  logFile,
			LogLevel: logLevel,
			TUI:      tui,
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress,
			RequestTimeout: requestTimeout,
			AccessToken:    accessToken,
			RefreshToken:   refresh,
		},
		Storage: Storage{
			Driver: driver,
			DB:     DB{DSN: dsn},
			Files: Files{
				QueuePath:      queuePath,
				DeadLetterPath: deadLetterPath,
			},
		},
		Workers: Workers{
			SyncInterval: syncInterval,
			MaxAttempts:  maxAttempts,
			BackoffBase:  backoffBase,
			BackoffMax:   backoffMax,
		},
		Connectivity: Connectivity{
			ProbeURL: probeURL,
			Interval: probeInterval,
			Timeout:  probeTimeout,
		},
		Control:      Control{HTTPAddress: controlAddress.String()},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
