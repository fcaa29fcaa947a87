// Command mixxx-monitor runs a mapping against an in-memory engine on real
// MIDI ports and logs every control the mapping writes. It is meant for
// trying a controller without starting Mixxx.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/PixPMusic/gopher-mixxx/internal/config"
	"github.com/PixPMusic/gopher-mixxx/internal/engine"
	"github.com/PixPMusic/gopher-mixxx/internal/host"
	"github.com/PixPMusic/gopher-mixxx/internal/mappings"
	"github.com/PixPMusic/gopher-mixxx/internal/midi"
	"github.com/PixPMusic/gopher-mixxx/internal/preset"
)

var logger *slog.Logger

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func main() {
	configPath := flag.String("config", "", "config file (default: user config dir)")
	debug := flag.Bool("debug", false, "enable debug logging")
	list := flag.Bool("list", false, "list MIDI ports and exit")
	device := flag.String("device", "", "configured device name or ID")
	inPort := flag.String("in", "", "MIDI input port (overrides the device)")
	outPort := flag.String("out", "", "MIDI output port (overrides the device)")
	mappingName := flag.String("mapping", "", "mapping name (overrides the device)")
	save := flag.Bool("save", false, "store the ports and mapping as a device in the config")
	flag.Parse()

	initLogger(*debug)

	if err := run(*configPath, *list, *device, *inPort, *outPort, *mappingName, *save); err != nil {
		logger.Error("monitor failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, list bool, deviceName, inPort, outPort, mappingName string, save bool) error {
	midiManager := midi.NewManager()
	defer midiManager.Close()

	if list {
		for _, name := range midiManager.ListInPorts() {
			fmt.Println("in: ", name)
		}
		for _, name := range midiManager.ListOutPorts() {
			fmt.Println("out:", name)
		}
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dev := config.NewDeviceConfig()
	if deviceName != "" {
		found := cfg.GetDevice(deviceName)
		if found == nil {
			return fmt.Errorf("no device %q in config", deviceName)
		}
		dev = *found
	} else if len(cfg.Devices) > 0 && inPort == "" {
		dev = cfg.Devices[0]
	}
	if inPort != "" {
		dev.InPort = inPort
	}
	if outPort != "" {
		dev.OutPort = outPort
	}
	if mappingName != "" {
		dev.Mapping = mappingName
	}

	m, ok := mappings.Get(dev.Mapping)
	if !ok {
		return fmt.Errorf("unknown mapping %q", dev.Mapping)
	}

	if save {
		path := configPath
		if path == "" {
			if path, err = config.ConfigPath(); err != nil {
				return err
			}
		}
		dev.Name = m.Name
		cfg.AddDevice(dev)
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		logger.Info("device saved", "id", dev.ID, "config", path)
	}

	p, err := preset.Load(cfg.PresetPath(m.Name))
	if err != nil {
		return err
	}

	var out engine.MIDI = engine.Discard
	if dev.OutPort != "" {
		if out, err = midiManager.Output(dev.OutPort); err != nil {
			return err
		}
	}

	mem := engine.NewMemory()
	mem.OnSet = func(group, key string, value float64) {
		logger.Info("set", "group", group, "key", key, "value", value)
	}

	h, err := host.New(m, p, mem, out, logger)
	if err != nil {
		return err
	}
	h.Start()
	defer h.Stop()

	stop, err := midiManager.StartListening(dev.InPort, func(portName string, msg midi.ShortMessage) {
		if !h.Dispatch(msg) {
			logger.Debug("unmapped", "port", portName, "message", msg)
		}
	})
	if err != nil {
		return err
	}
	defer stop()

	logger.Info("monitoring", "mapping", m.Name, "in", dev.InPort, "out", dev.OutPort)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals
	return nil
}
