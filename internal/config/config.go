// Package config loads controller configuration from YAML with defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/farmtech/internal/display"
	"github.com/sweeney/farmtech/internal/gpio"
	"github.com/sweeney/farmtech/internal/mqtt"
	"github.com/sweeney/farmtech/internal/sensor"
	"github.com/sweeney/farmtech/internal/telemetry"
)

// DefaultPath is where the controller looks for its config file.
const DefaultPath = "/etc/farmtech/config.yaml"

// Config represents the controller configuration.
type Config struct {
	Period  time.Duration `yaml:"period"` // delay after each cycle
	GPIO    GPIOConfig    `yaml:"gpio"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Display DisplayConfig `yaml:"display"`
	Serial  SerialConfig  `yaml:"serial"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// GPIOConfig contains the character device and BCM line offsets.
type GPIOConfig struct {
	Chip    string `yaml:"chip"`
	ButtonP int    `yaml:"button_p"`
	ButtonK int    `yaml:"button_k"`
	Relay   int    `yaml:"relay"`
	LED     int    `yaml:"led"`
}

// SensorConfig contains the I2C environmental sensor and ADC setup.
type SensorConfig struct {
	Bus          string `yaml:"bus"` // empty = first available bus
	EnvAddr      uint16 `yaml:"env_addr"`
	ADCAddr      uint16 `yaml:"adc_addr"`
	LightChannel int    `yaml:"light_channel"`
}

// DisplayConfig contains the character LCD setup.
type DisplayConfig struct {
	Enabled bool          `yaml:"enabled"`
	Bus     string        `yaml:"bus"`
	Addr    uint16        `yaml:"addr"`
	Cols    int           `yaml:"cols"`
	Rows    int           `yaml:"rows"`
	Splash  string        `yaml:"splash"`
	Hold    time.Duration `yaml:"splash_hold"`
}

// SerialConfig contains the telemetry serial port.
type SerialConfig struct {
	Port     string `yaml:"port"` // "-" = stdout
	BaudRate int    `yaml:"baud_rate"`
}

// MQTTConfig contains the optional MQTT mirror. Empty broker disables it.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// HTTPConfig contains the optional status server. Empty addr disables it.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Period: 1000 * time.Millisecond,
		GPIO: GPIOConfig{
			Chip:    gpio.DefaultChip,
			ButtonP: gpio.DefaultPinButtonP,
			ButtonK: gpio.DefaultPinButtonK,
			Relay:   gpio.DefaultPinRelay,
			LED:     gpio.DefaultPinLED,
		},
		Sensor: SensorConfig{
			EnvAddr:      sensor.DefaultEnvAddr,
			ADCAddr:      sensor.DefaultADCAddr,
			LightChannel: sensor.DefaultLightChannel,
		},
		Display: DisplayConfig{
			Enabled: true,
			Addr:    display.DefaultAddr,
			Cols:    16,
			Rows:    2,
			Splash:  "FarmTech System",
			Hold:    2 * time.Second,
		},
		Serial: SerialConfig{
			Port:     telemetry.DefaultPort,
			BaudRate: telemetry.DefaultBaudRate,
		},
		MQTT: MQTTConfig{
			ClientID: mqtt.DefaultClientID,
		},
		HTTP: HTTPConfig{
			Addr: ":80",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects configurations the hardware layer cannot honor.
func (c *Config) Validate() error {
	if c.Period <= 0 {
		return fmt.Errorf("config: period must be positive, got %v", c.Period)
	}
	pins := map[int]string{}
	for name, pin := range map[string]int{
		"button_p": c.GPIO.ButtonP,
		"button_k": c.GPIO.ButtonK,
		"relay":    c.GPIO.Relay,
		"led":      c.GPIO.LED,
	} {
		if pin < 0 {
			return fmt.Errorf("config: gpio.%s must not be negative", name)
		}
		if other, ok := pins[pin]; ok {
			return fmt.Errorf("config: gpio.%s and gpio.%s share line %d", name, other, pin)
		}
		pins[pin] = name
	}
	if c.Sensor.LightChannel < 0 || c.Sensor.LightChannel > 3 {
		return fmt.Errorf("config: sensor.light_channel must be 0-3, got %d", c.Sensor.LightChannel)
	}
	if c.Display.Cols <= 0 {
		return fmt.Errorf("config: display.cols must be positive, got %d", c.Display.Cols)
	}
	if c.Display.Rows < 1 || c.Display.Rows > 4 {
		return fmt.Errorf("config: display.rows must be 1-4, got %d", c.Display.Rows)
	}
	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Period == 0 {
		c.Period = def.Period
	}

	if c.GPIO.Chip == "" {
		c.GPIO.Chip = def.GPIO.Chip
	}

	if c.Sensor.EnvAddr == 0 {
		c.Sensor.EnvAddr = def.Sensor.EnvAddr
	}
	if c.Sensor.ADCAddr == 0 {
		c.Sensor.ADCAddr = def.Sensor.ADCAddr
	}

	if c.Display.Addr == 0 {
		c.Display.Addr = def.Display.Addr
	}
	if c.Display.Cols == 0 {
		c.Display.Cols = def.Display.Cols
	}
	if c.Display.Rows == 0 {
		c.Display.Rows = def.Display.Rows
	}

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}
}
