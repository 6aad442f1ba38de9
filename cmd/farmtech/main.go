// Command farmtech samples the environment and buttons, drives the relay and
// LED, and reports each cycle over serial, the LCD and (optionally) MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/farmtech/internal/acquire"
	"github.com/sweeney/farmtech/internal/config"
	"github.com/sweeney/farmtech/internal/control"
	"github.com/sweeney/farmtech/internal/display"
	"github.com/sweeney/farmtech/internal/gpio"
	"github.com/sweeney/farmtech/internal/logic"
	"github.com/sweeney/farmtech/internal/mqtt"
	"github.com/sweeney/farmtech/internal/sensor"
	"github.com/sweeney/farmtech/internal/status"
	"github.com/sweeney/farmtech/internal/telemetry"
	"github.com/sweeney/farmtech/internal/web"
)

// overrides holds flag values that take precedence over the config file
// when the flag is given explicitly.
type overrides struct {
	period    time.Duration
	serial    string
	baud      int
	broker    string
	httpAddr  string
	noDisplay bool
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "YAML config file (missing file = defaults)")
	var o overrides
	flag.DurationVar(&o.period, "period", time.Second, "Delay after each cycle")
	flag.StringVar(&o.serial, "serial", telemetry.DefaultPort, `Telemetry serial port ("-" for stdout)`)
	flag.IntVar(&o.baud, "baud", telemetry.DefaultBaudRate, "Telemetry baud rate")
	flag.StringVar(&o.broker, "broker", "", "MQTT broker address (empty to disable)")
	flag.StringVar(&o.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.BoolVar(&o.noDisplay, "no-display", false, "Run without the LCD")
	printState := flag.Bool("print-state", false, "Print one reading and exit")
	listPorts := flag.Bool("list-ports", false, "List serial ports and exit")

	flag.Parse()

	if *listPorts {
		ports, err := telemetry.Ports()
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	applyOverrides(cfg, o, set)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func applyOverrides(cfg *config.Config, o overrides, set map[string]bool) {
	if set["period"] {
		cfg.Period = o.period
	}
	if set["serial"] {
		cfg.Serial.Port = o.serial
	}
	if set["baud"] {
		cfg.Serial.BaudRate = o.baud
	}
	if set["broker"] {
		cfg.MQTT.Broker = o.broker
	}
	if set["http"] {
		cfg.HTTP.Addr = o.httpAddr
	}
	if set["no-display"] && o.noDisplay {
		cfg.Display.Enabled = false
	}
}

func run(cfg *config.Config, printState bool) error {
	// Initialize inputs
	buttons, err := gpio.NewRealReader(cfg.GPIO.Chip, cfg.GPIO.ButtonP, cfg.GPIO.ButtonK)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	env, err := sensor.NewRealReader(sensor.Config{
		Bus:          cfg.Sensor.Bus,
		EnvAddr:      cfg.Sensor.EnvAddr,
		ADCAddr:      cfg.Sensor.ADCAddr,
		LightChannel: cfg.Sensor.LightChannel,
	})
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer env.Close()

	acq := acquire.New(env, buttons, time.Now)

	// Print state mode
	if printState {
		snap := acq.Acquire()
		st := logic.Evaluate(snap)
		line1, line2 := display.Lines(st, snap)
		fmt.Printf("%s\n%s\nvalid=%v buttons=%v output=%s\n", line1, line2, st.Valid, st.ButtonActive, st.Mode())
		return nil
	}

	// Initialize outputs
	output, err := gpio.NewRealOutput(cfg.GPIO.Chip, cfg.GPIO.Relay, cfg.GPIO.LED)
	if err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}
	defer output.Close()

	var renderer display.Renderer = display.Nop{}
	if cfg.Display.Enabled {
		lcd, err := display.NewLCD(cfg.Display.Bus, cfg.Display.Addr, cfg.Display.Cols, cfg.Display.Rows)
		if err != nil {
			return fmt.Errorf("init display: %w", err)
		}
		defer lcd.Close()
		if cfg.Display.Splash != "" {
			if err := lcd.Splash(cfg.Display.Splash, cfg.Display.Hold); err != nil {
				log.Printf("display splash error: %v", err)
			}
		}
		renderer = lcd
	}

	port, err := telemetry.Open(cfg.Serial.Port, cfg.Serial.BaudRate)
	if err != nil {
		return fmt.Errorf("init serial: %w", err)
	}
	defer port.Close()

	// Initialize MQTT
	var publisher mqtt.Publisher = mqtt.Nop{}
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		p := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		defer p.Close()
		publisher = p
		mqttStatus = p
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PeriodMs:   cfg.Period.Milliseconds(),
		SerialPort: cfg.Serial.Port,
		BaudRate:   cfg.Serial.BaudRate,
		Broker:     cfg.MQTT.Broker,
		HTTPAddr:   cfg.HTTP.Addr,
		Display:    cfg.Display.Enabled,
	})
	if info := readNetworkInfo(); info != nil {
		tracker.SetNetwork(info)
	}
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: period=%v serial=%s baud=%d display=%v broker=%q",
		cfg.Period, cfg.Serial.Port, cfg.Serial.BaudRate, cfg.Display.Enabled, cfg.MQTT.Broker)

	ctrl := control.New(acq, output, renderer, telemetry.NewWriter(port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// The delay starts after a cycle completes, so cycles never overlap.
	wait := func() <-chan time.Time { return time.After(cfg.Period) }

	return runLoop(ctrl, publisher, mqttStatus, tracker, time.Now, wait, sigCh)
}

func runLoop(ctrl *control.Controller, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, wait func() <-chan time.Time, sig <-chan os.Signal) error {
	var st logic.State

	for {
		var snap logic.Snapshot
		st, snap = ctrl.Cycle(st)

		if err := publisher.Publish(st, snap); err != nil && !errors.Is(err, mqtt.ErrNotConnected) {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}

		// Update status tracker for HTTP consumers
		if tracker != nil {
			tracker.Update(st, snap)
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}

		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			return shutdown(s, ctrl, publisher, mqttStatus, tracker, now)
		case <-wait():
		}
	}
}

// shutdown de-energizes the outputs and publishes a SHUTDOWN event.
func shutdown(s os.Signal, ctrl *control.Controller, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time) error {
	if err := ctrl.Shutdown(); err != nil {
		log.Printf("failed to de-energize outputs: %v", err)
	}

	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}
	event := mqtt.SystemEvent{
		Timestamp: now(),
		Event:     "SHUTDOWN",
		Reason:    signalName,
		Retained:  true,
	}
	if tracker != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		snap := tracker.Snapshot()
		event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
	return nil
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
