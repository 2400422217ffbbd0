package adapter

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/MKhiriev/go-notes-sync/internal/config"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/utils"
	"github.com/MKhiriev/go-notes-sync/models"
)

// interfaceLister returns the network interfaces of the host.
type interfaceLister func() ([]net.Interface, error)

type httpConnectivityProbe struct {
	client     *utils.HTTPClient
	probeURL   string
	interfaces interfaceLister

	logger *logger.Logger
}

// NewHTTPConnectivityProbe builds a [ConnectivityProbe] that treats any
// non-loopback interface that is up as "connected", and any HTTP answer from
// cfg.ProbeURL (whatever the status) as "internet reachable". An empty probe
// URL leaves reachability unknown.
func NewHTTPConnectivityProbe(cfg config.ClientConnectivity, log *logger.Logger) ConnectivityProbe {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &httpConnectivityProbe{
		client:     utils.NewHTTPClient("", timeout),
		probeURL:   cfg.ProbeURL,
		interfaces: net.Interfaces,
		logger:     log,
	}
}

// Fetch implements [ConnectivityProbe].
func (p *httpConnectivityProbe) Fetch(ctx context.Context) (models.NetworkState, error) {
	ifaces, err := p.interfaces()
	if err != nil {
		return models.NetworkState{}, fmt.Errorf("list network interfaces: %w", err)
	}

	state := models.NetworkState{Type: "none"}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		state.IsConnected = true
		state.Type = iface.Name
		break
	}

	if !state.IsConnected {
		state.IsInternetReachable = models.Reachable(false)
		return state, nil
	}
	if p.probeURL == "" {
		return state, nil
	}

	_, err = p.client.R().SetContext(ctx).Head(p.probeURL)
	if err != nil {
		p.logger.Debug().Str("func", "httpConnectivityProbe.Fetch").Err(err).Msg("probe request failed")
		state.IsInternetReachable = models.Reachable(false)
		return state, nil
	}

	state.IsInternetReachable = models.Reachable(true)
	return state, nil
}
