package ports

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path"
	"slices"
	"sync"
	"time"

	"go.bug.st/serial"
)

// DeviceOpener opens one device found by the monitor.
type DeviceOpener interface {
	Open(path string) (*RealDeviceReader, error)
}

// MonitoringDeviceReader polls for touch panels and reads from every panel
// that shows up, until it is unplugged.
type MonitoringDeviceReader struct {
	pathToLookup string

	devicesList map[string]*RealDeviceReader
	lock        sync.RWMutex

	opener DeviceOpener
	list   func() ([]string, error)

	pollingInterval time.Duration
}

func NewMonitoringDeviceReader(pathToLookup string, baudRate int) *MonitoringDeviceReader {
	return &MonitoringDeviceReader{
		pathToLookup:    pathToLookup,
		devicesList:     make(map[string]*RealDeviceReader),
		opener:          &RealDeviceOpener{BaudRate: baudRate},
		list:            serial.GetPortsList,
		pollingInterval: 5 * time.Second,
	}
}

func DefaultMonitoringDeviceReader(baudRate int) *MonitoringDeviceReader {
	return NewMonitoringDeviceReader("/dev/", baudRate)
}

func (r *MonitoringDeviceReader) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for i, device := range r.devicesList {
		if err := device.Close(); err != nil {
			return fmt.Errorf("error closing device %s: %w", i, err)
		}
	}

	return nil
}

func (r *MonitoringDeviceReader) CloseDevice(devicePath string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	device, exists := r.devicesList[devicePath]
	if !exists {
		slog.DebugContext(logCtx, "Device not found in list", "path", devicePath)

		return nil
	}

	delete(r.devicesList, devicePath)

	if err := device.Close(); err != nil {
		return fmt.Errorf("error closing device %s: %w", devicePath, err)
	}

	slog.InfoContext(logCtx, "Device closed and removed from list", "path", devicePath)

	return nil
}

func (r *MonitoringDeviceReader) AddDevice(devicePath string, out chan<- string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.devicesList[devicePath]; exists {
		return nil
	}

	device, err := r.opener.Open(devicePath)
	if err != nil {
		return fmt.Errorf("error opening device %s: %w", devicePath, err)
	}

	r.devicesList[devicePath] = device

	go func() {
		slog.InfoContext(logCtx, "Device loop started", "path", devicePath)

		for line := range device.Channel() {
			out <- line
		}

		if err := r.CloseDevice(devicePath); err != nil {
			slog.ErrorContext(logCtx, "Could not close device", "path", devicePath, "error", err)
		}
	}()

	return nil
}

// FindDevices returns the touch panels that are not opened yet.
func (r *MonitoringDeviceReader) FindDevices() ([]string, error) {
	serialDevices, err := r.list()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	entries, err := os.ReadDir(r.pathToLookup)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", r.pathToLookup, err)
	}

	newDevices := make(map[string]bool)

	for _, devicePath := range serialDevices {
		if r.shouldOpenDevice(devicePath) {
			newDevices[devicePath] = true
		}
	}

	for _, entry := range entries {
		if shouldOpen, devicePath := r.shouldOpenFile(entry); shouldOpen {
			newDevices[devicePath] = true
		}
	}

	return slices.Sorted(maps.Keys(newDevices)), nil
}

// Channel starts polling. Lines of every device go to the returned channel
// until ctx is done, then all devices are closed.
func (r *MonitoringDeviceReader) Channel(ctx context.Context) <-chan string {
	outputChan := make(chan string, 5)

	go func() {
		slog.InfoContext(logCtx, "Monitoring started", "path", r.pathToLookup)

		defer slog.InfoContext(logCtx, "End monitoring", "path", r.pathToLookup)

		ticker := time.NewTicker(r.pollingInterval)
		defer ticker.Stop()

		for {
			devices, err := r.FindDevices()
			if err != nil {
				slog.ErrorContext(logCtx, "Error finding devices", "error", err)
			}

			for _, devicePath := range devices {
				slog.InfoContext(logCtx, "Found device", "path", devicePath)

				if err := r.AddDevice(devicePath, outputChan); err != nil {
					slog.ErrorContext(logCtx, "Could not add device", "path", devicePath, "error", err)
				}
			}

			select {
			case <-ctx.Done():
				if err := r.Close(); err != nil {
					slog.WarnContext(logCtx, "Could not close devices", "error", err)
				}

				return
			case <-ticker.C:
			}
		}
	}()

	return outputChan
}

func (r *MonitoringDeviceReader) shouldOpenFile(entry os.DirEntry) (bool, string) {
	if entry.IsDir() || entry.Type()&os.ModeDevice == 0 {
		return false, ""
	}

	devicePath := path.Join(r.pathToLookup, entry.Name())

	if r.shouldOpenDevice(devicePath) {
		return true, devicePath
	}

	return false, ""
}

func (r *MonitoringDeviceReader) shouldOpenDevice(devicePath string) bool {
	if !LooksLikeTouchDevice(devicePath) {
		return false
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	_, ok := r.devicesList[devicePath]

	return !ok
}
