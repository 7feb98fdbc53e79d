package main

import (
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/picoscroll/scroll"
	"github.com/harveysanders/picoscroll/scrollsign/ledmatrix"
	"github.com/harveysanders/picoscroll/scrollsign/max7219"
	"github.com/harveysanders/picoscroll/scrollsign/weather"
	"tinygo.org/x/drivers/dht"
	"tinygo.org/x/tinyfont"
)

// greeting can be set at build time:
//
//	tinygo flash -target=pico -ldflags="-X 'main.greeting=Hello there'" ./scrollsign
var greeting string

const (
	defaultGreeting = "Hello from TinyGo! This sign splits long messages so they scroll without a gap."
	modules         = 4  // 8x8 modules in the chain
	maxFrames       = 96 // scroll columns per animation sequence
	fontAscent      = 5  // TomThumb baseline

	weatherEvery = 30 * time.Second

	max16Bit uint16 = 65535 // Max ADC value. The Pico has an onboard 16-bit ADC.
	fastest         = 20 * time.Millisecond
	slowest         = 200 * time.Millisecond
)

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	debugLED := machine.GP21
	debugLED.Configure(machine.PinConfig{Mode: machine.PinOutput})

	machine.InitADC()
	pot := machine.ADC{Pin: machine.ADC0}
	pot.Configure(machine.ADCConfig{})

	m, err := configureMatrix(logger)
	if err != nil {
		printErrForever(logger, "configure matrix", slog.Any("reason", err))
	}

	font := scroll.FixedFont(&tinyfont.TomThumb, fontAscent)
	text := greeting
	if text == "" {
		text = defaultGreeting
	}
	head, err := scroll.SplitFor(text, m, m.MaxFrames(), font)
	if err != nil {
		printErrForever(logger, "split greeting", slog.Any("reason", err))
	}
	// The weather reading is spliced in after the whole greeting.
	anchor, err := head.LastOfMessage()
	if err != nil {
		printErrForever(logger, "find greeting end", slog.Any("reason", err))
	}
	if err := scroll.Loop(head); err != nil {
		printErrForever(logger, "loop greeting", slog.Any("reason", err))
	}
	slot := scroll.NewSlot(anchor)

	player := scroll.NewPlayer(m, scroll.DefaultStyle(font), logger)
	m.OnSequenceDone(func() {
		debugLED.Set(!debugLED.Get())
		if err := player.Next(); err != nil {
			logger.Error("player:next", slog.String("err", err.Error()))
		}
	})
	if err := player.Start(head); err != nil {
		printErrForever(logger, "start playback", slog.Any("reason", err))
	}

	sensor := weather.New(machine.GP22, dht.C)
	var lastWeather time.Time

	for {
		now := time.Now()
		if err := m.Tick(now); err != nil {
			logger.Error("matrix:tick", slog.String("err", err.Error()))
		}

		m.SetFrameInterval(frameInterval(pot.Get()))

		if now.Sub(lastWeather) >= weatherEvery {
			if updateWeather(logger, sensor, slot, player, m, font, now) {
				lastWeather = now
			}
		}

		time.Sleep(time.Millisecond)
	}
}

// configureMatrix sets up SPI0 and the MAX7219 chain and wraps it in an
// animation engine.
func configureMatrix(logger *slog.Logger) (*ledmatrix.Matrix, error) {
	err := machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 8_000_000,
		SCK:       machine.GP18,
		SDO:       machine.GP19,
		SDI:       machine.GP16,
	})
	if err != nil {
		return nil, err
	}
	cs := machine.GP17
	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	cs.High()

	panel, err := max7219.New(machine.SPI0, cs, modules)
	if err != nil {
		return nil, err
	}
	if err := panel.Configure(max7219.Config{Intensity: 2}); err != nil {
		return nil, err
	}
	return ledmatrix.New(panel, ledmatrix.Config{
		MaxFrames: maxFrames,
		Logger:    logger,
	})
}

// updateWeather reads the sensor and puts the reading in slot. It reports
// false when the previous reading is still on screen and the update should be
// retried.
func updateWeather(
	logger *slog.Logger,
	sensor *weather.Sensor,
	slot *scroll.Slot,
	player *scroll.Player,
	m *ledmatrix.Matrix,
	font scroll.Font,
	now time.Time,
) bool {
	reading, err := sensor.Read(now)
	if err != nil {
		logger.Error("weather:read", slog.String("err", err.Error()))
		if !reading.Cached {
			return true
		}
	}

	var buf [24]byte
	msg, err := scroll.SplitFor(string(weather.AppendText(buf[:0], reading)), m, m.MaxFrames(), font)
	if err != nil {
		logger.Error("weather:split", slog.String("err", err.Error()))
		return true
	}
	ok, err := slot.Replace(msg, player.Current())
	if err != nil {
		logger.Error("weather:splice", slog.String("err", err.Error()))
		return true
	}
	if ok {
		logger.Info("weather:updated", slog.String("text", msg.Text()))
	}
	return ok
}

// frameInterval maps a potentiometer reading to a scroll speed.
func frameInterval(val uint16) time.Duration {
	return fastest + time.Duration(val)*(slowest-fastest)/time.Duration(max16Bit)
}

// printErrForever prints a string to serial @ 1hz. It
// blocks forever.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
