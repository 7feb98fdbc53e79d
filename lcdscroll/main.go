package main

import (
	"errors"
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/picoscroll/lcdscroll/marquee"
	"github.com/harveysanders/picoscroll/scroll"
	"tinygo.org/x/drivers/hd44780i2c"
)

// message can be set at build time with -ldflags="-X 'main.message=...'".
var message string

const (
	defaultMessage = "Hello from TinyGo! Long messages are split into chunks that fit the animation buffer."
	title          = "picoscroll"

	max16Bit uint16 = 65535 // Max ADC value. The Pico has an onboard 16-bit ADC.
	fastest         = 100 * time.Millisecond
	slowest         = 800 * time.Millisecond
)

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	machine.InitADC()
	pot := machine.ADC{Pin: machine.ADC0}
	pot.Configure(machine.ADCConfig{})

	// Setup LCD display over I2C
	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.GP4,
		SCL: machine.GP5,
	})
	if err != nil {
		printErrForever(logger, "configure I2C", slog.Any("reason", err))
	}

	lcd, err := configureLCD(machine.I2C0)
	if err != nil {
		printErrForever(logger, "configure LCD", slog.Any("reason", err))
	}

	m := marquee.New(&lcd, marquee.Config{
		Columns: 16,
		Logger:  logger,
	})
	m.Clear()
	lcd.SetCursor(0, 0)
	lcd.Print([]byte(title))

	text := message
	if text == "" {
		text = defaultMessage
	}
	head, err := scroll.SplitFor(text, m, m.MaxFrames(), marquee.CellFont)
	if err != nil {
		printErrForever(logger, "split message", slog.Any("reason", err))
	}
	if err := scroll.Loop(head); err != nil {
		printErrForever(logger, "loop message", slog.Any("reason", err))
	}

	// Title stays on row 0, the message scrolls on row 1.
	player := scroll.NewPlayer(m, scroll.DefaultStyle(marquee.CellFont), logger)
	m.OnSequenceDone(func() {
		if err := player.Next(); err != nil {
			logger.Error("player:next", slog.String("err", err.Error()))
		}
	})
	if err := player.Start(head); err != nil {
		printErrForever(logger, "start playback", slog.Any("reason", err))
	}

	for {
		m.SetFrameInterval(fastest + time.Duration(pot.Get())*(slowest-fastest)/time.Duration(max16Bit))
		m.Tick(time.Now())
		time.Sleep(5 * time.Millisecond)
	}
}

// configureLCD takes a preconfigured I2C peripheral and attempts to
// initialize the HD44780 LCD display. If no LCD found on the common I2C
// addresses (0x27, 0x3F), an error is returned.
func configureLCD(i2c *machine.I2C) (hd44780i2c.Device, error) {
	// Try common addresses (0x27 then 0x3F)
	addrs := []uint8{0x27, 0x3F}
	var lcd hd44780i2c.Device

	for _, a := range addrs {
		println("checking I2C address...")
		// The HD44780 backpack ACKs an empty write when present.
		if err := i2c.Tx(uint16(a), nil, nil); err != nil {
			continue
		}
		lcd = hd44780i2c.New(i2c, a)
		lcd.Configure(hd44780i2c.Config{
			Width:  16,
			Height: 2,
		})
		return lcd, nil
	}
	return lcd, errors.New("LCD not found on addresses: 0x27, 0x3f")
}

// printErrForever prints a string to serial @ 1hz. It
// blocks forever.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
