// Package weather reads a DHT11 temperature and humidity sensor and formats
// readings as short lines of text for the scrolling sign.
//
// The DHT11 needs at least 2 seconds between reads, so Sensor throttles
// queries and serves the last good reading in between.
package weather

import (
	"machine"
	"strconv"
	"time"

	"tinygo.org/x/drivers/dht"
)

// Reading is one temperature and humidity sample.
type Reading struct {
	Temperature float32
	Humidity    float32 // relative humidity, percent
	Scale       dht.TemperatureScale
	Cached      bool // served from cache instead of a fresh sensor read
}

// Sensor wraps a DHT11 with read throttling.
type Sensor struct {
	dev         dht.Device
	scale       dht.TemperatureScale
	minInterval time.Duration
	last        Reading
	lastRead    time.Time
	valid       bool
}

func New(pin machine.Pin, scale dht.TemperatureScale) *Sensor {
	return &Sensor{
		dev:   dht.New(pin, dht.DHT11),
		scale: scale,
		// DHT11 requires minimum 2s between reads
		minInterval: 2 * time.Second,
	}
}

// Read returns a reading taken no earlier than the throttle interval allows.
// When the sensor fails and an earlier reading exists, that reading is
// returned together with the error.
func (s *Sensor) Read(now time.Time) (Reading, error) {
	if s.valid && now.Sub(s.lastRead) < s.minInterval {
		return s.cached(), nil
	}

	err := s.dev.ReadMeasurements()
	if err != nil {
		return s.cached(), err
	}
	temp, err := s.dev.TemperatureFloat(s.scale)
	if err != nil {
		return s.cached(), err
	}
	hum, err := s.dev.HumidityFloat()
	if err != nil {
		return s.cached(), err
	}

	s.last = Reading{Temperature: temp, Humidity: hum, Scale: s.scale}
	s.lastRead = now
	s.valid = true
	return s.last, nil
}

func (s *Sensor) cached() Reading {
	if !s.valid {
		return Reading{}
	}
	r := s.last
	r.Cached = true
	return r
}

// AppendText appends r as display text, e.g. "21.5C 40%", to dst.
func AppendText(dst []byte, r Reading) []byte {
	const floatNoExp = 'f'
	dst = strconv.AppendFloat(dst, float64(r.Temperature), floatNoExp, 1, 32)
	if r.Scale == dht.F {
		dst = append(dst, 'F')
	} else {
		dst = append(dst, 'C')
	}
	dst = append(dst, ' ')
	dst = strconv.AppendFloat(dst, float64(r.Humidity), floatNoExp, 0, 32)
	return append(dst, '%')
}
