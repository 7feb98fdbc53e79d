// Package max7219 drives a daisy-chained row of MAX7219 8x8 LED matrix
// modules (the common "FC-16" boards) as a single drivers.Displayer.
//
// Every register write shifts one 16-bit command per module through the chain
// inside a single chip-select frame, so a full refresh is eight frames, one
// per row.
package max7219

import (
	"errors"
	"image/color"

	"tinygo.org/x/drivers"
)

// Registers.
const (
	regDigit0      = 0x01
	regDecodeMode  = 0x09
	regIntensity   = 0x0A
	regScanLimit   = 0x0B
	regShutdown    = 0x0C
	regDisplayTest = 0x0F
)

const rows = 8

var ErrNoModules = errors.New("max7219: need at least one module")

// Pin is the chip-select line. machine.Pin satisfies it.
type Pin interface {
	High()
	Low()
}

// Config holds the settings applied by Configure.
type Config struct {
	// Intensity is the LED brightness, 0 (dim) to 15.
	Intensity uint8
	// Reversed flips the module order for chains wired right to left.
	Reversed bool
}

// Device is a chain of modules. Module 0 is the leftmost.
type Device struct {
	bus      drivers.SPI
	cs       Pin
	modules  int
	reversed bool
	buf      []byte // rows bytes per module, bit 7 is the leftmost column
	tx       []byte
}

// New returns a Device for a chain of the given number of modules.
func New(bus drivers.SPI, cs Pin, modules int) (*Device, error) {
	if modules < 1 {
		return nil, ErrNoModules
	}
	return &Device{
		bus:     bus,
		cs:      cs,
		modules: modules,
		buf:     make([]byte, rows*modules),
		tx:      make([]byte, 2*modules),
	}, nil
}

// Configure wakes the chain up and clears it.
func (d *Device) Configure(cfg Config) error {
	d.reversed = cfg.Reversed
	cmds := [...][2]byte{
		{regDisplayTest, 0},
		{regDecodeMode, 0},       // raw segments
		{regScanLimit, rows - 1}, // all rows
		{regIntensity, min(cfg.Intensity, 15)},
		{regShutdown, 1},
	}
	for _, c := range cmds {
		if err := d.writeAll(c[0], c[1]); err != nil {
			return errors.New("max7219 configure: " + err.Error())
		}
	}
	clear(d.buf)
	return d.Display()
}

// SetIntensity changes the brightness of every module.
func (d *Device) SetIntensity(level uint8) error {
	return d.writeAll(regIntensity, min(level, 15))
}

func (d *Device) Size() (x, y int16) { return int16(rows * d.modules), rows }

func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || int(x) >= rows*d.modules || y < 0 || y >= rows {
		return
	}
	i := int(x)/rows*rows + int(y)
	bit := byte(0x80) >> (x % rows)
	if c.R|c.G|c.B == 0 {
		d.buf[i] &^= bit
		return
	}
	d.buf[i] |= bit
}

// Display pushes the pixel buffer to the chain.
func (d *Device) Display() error {
	for row := 0; row < rows; row++ {
		for m := 0; m < d.modules; m++ {
			d.put(m, regDigit0+byte(row), d.buf[m*rows+row])
		}
		if err := d.flush(); err != nil {
			return err
		}
	}
	return nil
}

// put queues a command for module m. The first bytes shifted out travel
// furthest down the chain.
func (d *Device) put(m int, reg, data byte) {
	if !d.reversed {
		m = d.modules - 1 - m
	}
	d.tx[2*m] = reg
	d.tx[2*m+1] = data
}

func (d *Device) writeAll(reg, data byte) error {
	for m := 0; m < d.modules; m++ {
		d.put(m, reg, data)
	}
	return d.flush()
}

func (d *Device) flush() error {
	d.cs.Low()
	err := d.bus.Tx(d.tx, nil)
	d.cs.High()
	return err
}
