package ble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"tinygo.org/x/bluetooth"

	"github.com/cubelink/cubelink-go/pkg/transport"
)

// Errors returned by the BLE binding.
var (
	// ErrServiceNotFound indicates the peripheral lacks the UART service.
	ErrServiceNotFound = errors.New("uart service not found")

	// ErrCharacteristicNotFound indicates RX or TX could not be discovered.
	ErrCharacteristicNotFound = errors.New("uart characteristic not found")
)

// Scanner discovers cube aggregators on a bluetooth adapter.
type Scanner struct {
	adapter *bluetooth.Adapter
	logger  *slog.Logger

	enableOnce sync.Once
	enableErr  error

	// scanMu serialises scans; the adapter supports one at a time.
	scanMu sync.Mutex

	mu    sync.Mutex
	links map[string]*Link
}

// NewScanner creates a Scanner on the given adapter. A nil adapter selects
// bluetooth.DefaultAdapter.
func NewScanner(adapter *bluetooth.Adapter, logger *slog.Logger) *Scanner {
	if adapter == nil {
		adapter = bluetooth.DefaultAdapter
	}
	s := &Scanner{
		adapter: adapter,
		logger:  logger,
		links:   make(map[string]*Link),
	}
	return s
}

func (s *Scanner) enable() error {
	s.enableOnce.Do(func() {
		if err := s.adapter.Enable(); err != nil {
			s.enableErr = fmt.Errorf("enable bluetooth adapter: %w", err)
			return
		}
		s.adapter.SetConnectHandler(s.handleConnect)
	})
	return s.enableErr
}

// handleConnect routes adapter-wide connection events to the owning link.
func (s *Scanner) handleConnect(device bluetooth.Device, connected bool) {
	if connected {
		return
	}

	key := device.Address.String()
	s.mu.Lock()
	link := s.links[key]
	delete(s.links, key)
	s.mu.Unlock()

	if link != nil {
		link.peerDisconnected()
	}
}

// Scan blocks until a device advertising a name starting with namePrefix is
// found, or ctx is done.
func (s *Scanner) Scan(ctx context.Context, namePrefix string) (transport.Device, error) {
	if err := s.enable(); err != nil {
		return nil, err
	}

	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	var (
		found  bluetooth.ScanResult
		ok     bool
		result = make(chan error, 1)
	)

	go func() {
		result <- s.adapter.Scan(func(adapter *bluetooth.Adapter, r bluetooth.ScanResult) {
			if ok || !strings.HasPrefix(r.LocalName(), namePrefix) {
				return
			}
			found = r
			ok = true
			adapter.StopScan()
		})
	}()

	select {
	case err := <-result:
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
	case <-ctx.Done():
		_ = s.adapter.StopScan()
		<-result
		if !ok {
			return nil, ctx.Err()
		}
	}

	if !ok {
		return nil, fmt.Errorf("scan for %q ended without a match", namePrefix)
	}

	if s.logger != nil {
		s.logger.Debug("found device", "name", found.LocalName(), "address", found.Address.String(), "rssi", found.RSSI)
	}
	return &Device{scanner: s, result: found}, nil
}

func (s *Scanner) track(link *Link) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.address] = link
}

func (s *Scanner) untrack(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, address)
}

// Device is a discovered cube aggregator.
type Device struct {
	scanner *Scanner
	result  bluetooth.ScanResult
}

// Name returns the advertised local name.
func (d *Device) Name() string {
	return d.result.LocalName()
}

// Connect establishes the link and discovers the UART characteristics.
func (d *Device) Connect(ctx context.Context) (transport.Link, error) {
	type connectResult struct {
		link *Link
		err  error
	}
	done := make(chan connectResult, 1)

	go func() {
		link, err := d.connect()
		done <- connectResult{link, err}
	}()

	select {
	case r := <-done:
		return r.link, r.err
	case <-ctx.Done():
		// The adapter connect call is not cancellable; release the link
		// once it completes.
		go func() {
			if r := <-done; r.link != nil {
				_ = r.link.Disconnect()
			}
		}()
		return nil, ctx.Err()
	}
}

func (d *Device) connect() (*Link, error) {
	device, err := d.scanner.adapter.Connect(d.result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", d.result.Address.String(), err)
	}

	rx, tx, err := discoverUART(device)
	if err != nil {
		_ = device.Disconnect()
		return nil, err
	}

	link := &Link{
		scanner: d.scanner,
		device:  device,
		address: d.result.Address.String(),
		rx:      rx,
		tx:      tx,
	}
	d.scanner.track(link)
	return link, nil
}

func discoverUART(device bluetooth.Device) (rx, tx bluetooth.DeviceCharacteristic, err error) {
	services, err := device.DiscoverServices([]bluetooth.UUID{ServiceUUID})
	if err != nil {
		return rx, tx, fmt.Errorf("discover services: %w", err)
	}
	if len(services) == 0 {
		return rx, tx, ErrServiceNotFound
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{RXCharacteristicUUID, TXCharacteristicUUID})
	if err != nil {
		return rx, tx, fmt.Errorf("discover characteristics: %w", err)
	}

	var haveRX, haveTX bool
	for _, c := range chars {
		switch c.UUID() {
		case RXCharacteristicUUID:
			rx, haveRX = c, true
		case TXCharacteristicUUID:
			tx, haveTX = c, true
		}
	}
	if !haveRX || !haveTX {
		return rx, tx, ErrCharacteristicNotFound
	}
	return rx, tx, nil
}

// Compile-time interface satisfaction checks.
var (
	_ transport.Scanner = (*Scanner)(nil)
	_ transport.Device  = (*Device)(nil)
)
