package sensor

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/sweeney/farmtech/internal/logic"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// Config selects the bus and devices for RealReader.
type Config struct {
	Bus          string // I2C bus name, "" = first available
	EnvAddr      uint16
	ADCAddr      uint16
	LightChannel int
}

// RealReader reads a BME280 for temperature/humidity and one ADS1115
// channel wired to an LDR divider for light.
type RealReader struct {
	bus   i2c.BusCloser
	env   *bmxx80.Dev
	adc   *ads1x15.Dev
	light ads1x15.PinADC
}

// NewRealReader opens the I2C bus and initializes both devices.
func NewRealReader(cfg Config) (*RealReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}

	env, err := bmxx80.NewI2C(bus, cfg.EnvAddr, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init bme280 at 0x%02X: %w", cfg.EnvAddr, err)
	}

	if err := requireHumidity(env.String()); err != nil {
		env.Halt()
		bus.Close()
		return nil, fmt.Errorf("sensor at 0x%02X: %w", cfg.EnvAddr, err)
	}

	adcOpts := ads1x15.DefaultOpts
	adcOpts.I2cAddress = cfg.ADCAddr
	adc, err := ads1x15.NewADS1115(bus, &adcOpts)
	if err != nil {
		env.Halt()
		bus.Close()
		return nil, fmt.Errorf("init ads1115 at 0x%02X: %w", cfg.ADCAddr, err)
	}

	ch, err := channel(cfg.LightChannel)
	if err != nil {
		env.Halt()
		bus.Close()
		return nil, err
	}
	// 4.096V full scale covers a 3.3V divider.
	pin, err := adc.PinForChannel(ch, 4096*physic.MilliVolt, 8*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		env.Halt()
		bus.Close()
		return nil, fmt.Errorf("ads1115 channel %d: %w", cfg.LightChannel, err)
	}

	return &RealReader{bus: bus, env: env, adc: adc, light: pin}, nil
}

// requireHumidity rejects a BMP280, which bmxx80 also accepts but which has
// no humidity channel and would make every cycle read 0 %RH.
func requireHumidity(device string) error {
	if strings.HasPrefix(device, "BME280") {
		return nil
	}
	return fmt.Errorf("%s has no humidity sensor, a BME280 is required", device)
}

func channel(n int) (ads1x15.Channel, error) {
	switch n {
	case 0:
		return ads1x15.Channel0, nil
	case 1:
		return ads1x15.Channel1, nil
	case 2:
		return ads1x15.Channel2, nil
	case 3:
		return ads1x15.Channel3, nil
	}
	return 0, fmt.Errorf("ads1115: invalid channel %d", n)
}

func (r *RealReader) sense() (physic.Env, bool) {
	var e physic.Env
	if err := r.env.Sense(&e); err != nil {
		log.Printf("sensor: bme280 sense: %v", err)
		return e, false
	}
	return e, true
}

// ReadHumidity returns relative humidity in percent, or NaN on failure.
func (r *RealReader) ReadHumidity() float64 {
	e, ok := r.sense()
	if !ok {
		return math.NaN()
	}
	return float64(e.Humidity) / float64(physic.PercentRH)
}

// ReadTemperature returns degrees Celsius, or NaN on failure.
func (r *RealReader) ReadTemperature() float64 {
	e, ok := r.sense()
	if !ok {
		return math.NaN()
	}
	return e.Temperature.Celsius()
}

// ReadLight returns the light channel in 12-bit units, or logic.LightReadFailed.
func (r *RealReader) ReadLight() int {
	s, err := r.light.Read()
	if err != nil {
		log.Printf("sensor: ads1115 read: %v", err)
		return logic.LightReadFailed
	}
	return scaleLight(s)
}

// scaleLight maps the single-ended 15-bit ADS1115 code onto the 0-4095
// range of an on-chip 12-bit ADC. Negative codes (noise around 0V) clamp to 0.
func scaleLight(s analog.Sample) int {
	if s.Raw < 0 {
		return 0
	}
	return int(s.Raw >> 3)
}

// Close halts both devices and releases the bus.
func (r *RealReader) Close() error {
	var errs []error
	if r.light != nil {
		if err := r.light.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt ads1115 pin: %w", err))
		}
	}
	if r.env != nil {
		if err := r.env.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt bme280: %w", err))
		}
	}
	if r.bus != nil {
		if err := r.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
