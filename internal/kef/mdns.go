package kef

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

// mdnsService is the service type KEF's W2 platform registers with mDNS.
const mdnsService = "_kef-info._tcp"

// discoverMDNS browses the KEF service type for the scan window and returns
// the speakers that announced themselves.
func (d *Discovery) discoverMDNS(ctx context.Context) ([]*Device, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("mdns resolver: %w", err)
	}

	browseCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(browseCtx, mdnsService, "local.", entries); err != nil {
		return nil, fmt.Errorf("mdns browse: %w", err)
	}

	var devices []*Device
	seen := make(map[string]bool)

	for entry := range entries {
		if entry == nil || len(entry.AddrIPv4) == 0 {
			continue
		}
		ip := entry.AddrIPv4[0].String()
		if seen[ip] {
			continue
		}
		seen[ip] = true

		d.log.Debugf("mdns: %s at %s", entry.Instance, ip)
		devices = append(devices, &Device{
			IP:       ip,
			UUID:     mdnsUUID(entry),
			Name:     entry.Instance,
			LastSeen: time.Now(),
		})
	}

	return devices, nil
}

// mdnsUUID derives a stable identifier for an mDNS-only device. Entries
// carry no UPnP UUID, so the hostname stands in for one.
func mdnsUUID(entry *zeroconf.ServiceEntry) string {
	host := strings.TrimSuffix(entry.HostName, ".local.")
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		host = entry.Instance
	}
	return "mdns-" + strings.ToLower(host)
}
