package ports

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/dasdy/softkeys/logging"
	"go.bug.st/serial"
)

var logCtx = logging.PackageCtx("ports")

// touchDevicePattern matches the serial devices touch panels show up as.
var touchDevicePattern = regexp.MustCompile(`^/dev/(tty\.usbmodem\d+|ttyACM\d+|ttyUSB\d+)$`)

func LooksLikeTouchDevice(path string) bool {
	return touchDevicePattern.MatchString(path)
}

// Open opens a serial device that streams event script lines.
func Open(path string, baudRate int) (io.ReadCloser, error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baudRate,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open serial port %s: %w", path, err)
	}

	// a panel may stay silent for a long time
	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()

		return nil, fmt.Errorf("could not configure serial port %s: %w", path, err)
	}

	return port, nil
}

// ReadFile sends every line of r to the returned channel and closes it at EOF.
func ReadFile(r io.Reader) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			out <- scanner.Text()
		}

		if err := scanner.Err(); err != nil {
			slog.WarnContext(logCtx, "Stopped reading input", "error", err)
		}
	}()

	return out
}

// ReadTwoFiles merges the lines of f1 and f2. The channel is closed when both
// readers are exhausted.
func ReadTwoFiles(f1, f2 io.Reader) <-chan string {
	return Merge(ReadFile(f1), ReadFile(f2))
}

func Merge(inputs ...<-chan string) <-chan string {
	out := make(chan string)

	var wg sync.WaitGroup

	for _, in := range inputs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for line := range in {
				out <- line
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// OpenDevices opens every path and merges their lines. closer closes all of them.
func OpenDevices(paths []string, baudRate int) (<-chan string, func(), error) {
	var (
		readers []io.ReadCloser
		inputs  []<-chan string
	)

	closer := func() {
		for _, r := range readers {
			if err := r.Close(); err != nil {
				slog.WarnContext(logCtx, "Could not close device", "error", err)
			}
		}
	}

	for _, path := range paths {
		r, err := Open(path, baudRate)
		if err != nil {
			closer()

			return nil, nil, err
		}

		readers = append(readers, r)
		inputs = append(inputs, ReadFile(r))
	}

	return Merge(inputs...), closer, nil
}

// GetAvailableDevices lists serial ports that look like touch panels.
func GetAvailableDevices() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("could not list serial ports: %w", err)
	}

	result := make([]string, 0)

	for _, n := range names {
		if LooksLikeTouchDevice(n) {
			result = append(result, n)
		}
	}

	return result, nil
}

// RealDeviceOpener opens serial devices for the monitor.
type RealDeviceOpener struct {
	BaudRate int
}

func (o *RealDeviceOpener) Open(path string) (*RealDeviceReader, error) {
	port, err := Open(path, o.BaudRate)
	if err != nil {
		return nil, err
	}

	return &RealDeviceReader{path: path, port: port, opened: time.Now()}, nil
}

// RealDeviceReader streams the lines of one opened device.
type RealDeviceReader struct {
	path   string
	port   io.ReadCloser
	opened time.Time
	once   sync.Once
}

func (r *RealDeviceReader) Channel() <-chan string {
	return ReadFile(r.port)
}

// Close is safe to call more than once.
func (r *RealDeviceReader) Close() error {
	var err error

	r.once.Do(func() {
		slog.InfoContext(logCtx, "Closing device", "path", r.path, "open-for", time.Since(r.opened))
		err = r.port.Close()
	})

	return err
}
