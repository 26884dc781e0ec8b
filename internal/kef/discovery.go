package kef

import (
	"bufio"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ssdpAddr    = "239.255.255.250:1900"
	rendererURN = "urn:schemas-upnp-org:device:MediaRenderer:1"
	defaultTTL  = 5 * time.Minute
)

var mSearchRequest = []byte(
	"M-SEARCH * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"MX: 2\r\n" +
		"ST: " + rendererURN + "\r\n" +
		"\r\n",
)

// Device is a KEF speaker found on the local network.
type Device struct {
	IP       string    `json:"ip"`
	UUID     string    `json:"uuid"`
	Name     string    `json:"name"`
	Model    string    `json:"model"`
	Location string    `json:"location,omitempty"`
	LastSeen time.Time `json:"last_seen"`
}

// Discovery finds KEF speakers via SSDP and mDNS. Results are cached with a
// TTL so repeated lookups do not rescan the network.
type Discovery struct {
	timeout    time.Duration
	ttl        time.Duration
	httpClient *http.Client
	log        logrus.FieldLogger

	mu      sync.RWMutex
	devices map[string]*Device // keyed by UUID
}

// NewDiscovery creates a Discovery with the given scan timeout.
func NewDiscovery(timeout time.Duration) *Discovery {
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &Discovery{
		timeout:    timeout,
		ttl:        defaultTTL,
		httpClient: &http.Client{Timeout: 2 * time.Second},
		log:        logrus.StandardLogger().WithField("component", "discovery"),
		devices:    make(map[string]*Device),
	}
}

// Discover scans the network over SSDP and mDNS concurrently and returns
// every KEF speaker that answered. Both scans failing fails the discovery;
// one succeeding is enough.
func (d *Discovery) Discover(ctx context.Context) ([]*Device, error) {
	var (
		wg       sync.WaitGroup
		ssdpDevs []*Device
		mdnsDevs []*Device
		ssdpErr  error
		mdnsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		ssdpDevs, ssdpErr = d.discoverSSDP(ctx)
	}()
	go func() {
		defer wg.Done()
		mdnsDevs, mdnsErr = d.discoverMDNS(ctx)
	}()
	wg.Wait()

	if ssdpErr != nil && mdnsErr != nil {
		return nil, fmt.Errorf("discovery failed: ssdp: %v; mdns: %v", ssdpErr, mdnsErr)
	}
	if ssdpErr != nil {
		d.log.Debugf("ssdp scan failed, continuing with mdns results: %v", ssdpErr)
	}
	if mdnsErr != nil {
		d.log.Debugf("mdns scan failed, continuing with ssdp results: %v", mdnsErr)
	}

	merged := mergeDevices(ssdpDevs, mdnsDevs)

	d.mu.Lock()
	for _, dev := range merged {
		d.devices[dev.UUID] = dev
	}
	d.mu.Unlock()

	return merged, nil
}

// discoverSSDP sends an M-SEARCH for media renderers and keeps the
// responders whose device description names KEF as the manufacturer.
func (d *Discovery) discoverSSDP(ctx context.Context) ([]*Device, error) {
	addr, err := net.ResolveUDPAddr("udp4", ssdpAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve ssdp addr: %w", err)
	}

	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return nil, fmt.Errorf("listen udp: %w", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(d.timeout))

	if _, err := conn.WriteToUDP(mSearchRequest, addr); err != nil {
		return nil, fmt.Errorf("send m-search: %w", err)
	}

	var devices []*Device
	seen := make(map[string]bool)
	buf := make([]byte, 2048)

	for {
		select {
		case <-ctx.Done():
			return devices, ctx.Err()
		default:
		}

		n, remoteAddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				break // scan window elapsed
			}
			continue
		}

		device, err := parseSSDPResponse(buf[:n], remoteAddr)
		if err != nil || device == nil {
			continue
		}
		if seen[device.UUID] {
			continue
		}
		seen[device.UUID] = true

		// Every media renderer answers the search; the description
		// document tells us whether it is a KEF speaker.
		name, model, isKEF := d.describe(ctx, device.Location)
		if !isKEF {
			d.log.Debugf("skipping non-KEF renderer at %s", device.IP)
			continue
		}
		device.Name = name
		device.Model = model
		device.LastSeen = time.Now()
		devices = append(devices, device)
	}

	return devices, nil
}

// describe fetches a UPnP device description and reports the friendly name,
// model, and whether the manufacturer is KEF.
func (d *Discovery) describe(ctx context.Context, location string) (name, model string, isKEF bool) {
	if location == "" {
		return "", "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", "", false
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", "", false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", "", false
	}

	var desc struct {
		Device struct {
			FriendlyName string `xml:"friendlyName"`
			Manufacturer string `xml:"manufacturer"`
			ModelName    string `xml:"modelName"`
		} `xml:"device"`
	}
	if err := xml.Unmarshal(body, &desc); err != nil {
		return "", "", false
	}

	isKEF = strings.Contains(strings.ToLower(desc.Device.Manufacturer), "kef")
	return desc.Device.FriendlyName, desc.Device.ModelName, isKEF
}

// GetDevice returns a cached device by UUID, name, or IP, or nil when the
// cache holds no fresh entry for it.
func (d *Discovery) GetDevice(identifier string) *Device {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if dev, ok := d.devices[identifier]; ok {
		if time.Since(dev.LastSeen) < d.ttl {
			return dev
		}
	}

	for _, dev := range d.devices {
		if time.Since(dev.LastSeen) >= d.ttl {
			continue
		}
		if strings.EqualFold(dev.Name, identifier) || dev.IP == identifier {
			return dev
		}
	}

	return nil
}

// CachedDevices returns every cached device that has not expired.
func (d *Discovery) CachedDevices() []*Device {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var devices []*Device
	now := time.Now()
	for _, dev := range d.devices {
		if now.Sub(dev.LastSeen) < d.ttl {
			devices = append(devices, dev)
		}
	}
	return devices
}

// parseSSDPResponse extracts a device stub from an M-SEARCH response.
func parseSSDPResponse(data []byte, addr *net.UDPAddr) (*Device, error) {
	resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader(string(data))), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.Header.Get("ST") != rendererURN {
		return nil, nil
	}

	uuid := extractUUID(resp.Header.Get("USN"))
	if uuid == "" {
		return nil, nil
	}

	location := resp.Header.Get("Location")
	ip := addr.IP.String()
	if location != "" {
		// Trust the advertised location host over the response source;
		// some firmware answers from a secondary interface.
		if u, err := url.Parse(location); err == nil && u.Hostname() != "" {
			ip = u.Hostname()
		}
	}

	return &Device{
		IP:       ip,
		UUID:     uuid,
		Location: location,
	}, nil
}

// extractUUID pulls the uuid out of a USN header such as
// "uuid:8f2a...::urn:schemas-upnp-org:device:MediaRenderer:1".
func extractUUID(usn string) string {
	if !strings.HasPrefix(usn, "uuid:") {
		return ""
	}
	parts := strings.Split(usn, "::")
	if len(parts) < 1 {
		return ""
	}
	return strings.TrimPrefix(parts[0], "uuid:")
}

// mergeDevices combines scan results keyed by IP. SSDP entries win because
// they carry the UUID and model; mDNS fills in anything SSDP missed.
func mergeDevices(ssdp, mdns []*Device) []*Device {
	byIP := make(map[string]*Device, len(ssdp)+len(mdns))
	var order []string

	for _, dev := range ssdp {
		if _, ok := byIP[dev.IP]; !ok {
			order = append(order, dev.IP)
		}
		byIP[dev.IP] = dev
	}
	for _, dev := range mdns {
		if existing, ok := byIP[dev.IP]; ok {
			if existing.Name == "" {
				existing.Name = dev.Name
			}
			continue
		}
		byIP[dev.IP] = dev
		order = append(order, dev.IP)
	}

	merged := make([]*Device, 0, len(order))
	for _, ip := range order {
		merged = append(merged, byIP[ip])
	}
	return merged
}
