// Command washctl runs the washing-machine cycle controller: it watches the
// mode/level switches and the start/reset buttons, animates the progress-bar
// LEDs and the brightness-modulated indicator LED through wash, rinse and
// spin, drives the two-digit seven-segment display, and publishes cycle
// telemetry to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wbarker/washctl/internal/cycle"
	"github.com/wbarker/washctl/internal/display"
	"github.com/wbarker/washctl/internal/hw"
	"github.com/wbarker/washctl/internal/mqtt"
	"github.com/wbarker/washctl/internal/status"
	"github.com/wbarker/washctl/internal/web"
)

// defaultTick is the phase-advance period: 16 ticks per 3 seconds.
const defaultTick = 3 * time.Second / 16

// defaultRefresh is the display multiplex period (one digit per refresh).
const defaultRefresh = 5 * time.Millisecond

func main() {
	tick := flag.Duration("tick", defaultTick, "Phase-advance tick period")
	refresh := flag.Duration("refresh", defaultRefresh, "Display refresh period")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	chip := flag.String("chip", "gpiochip0", "GPIO character device")
	pinStart := flag.Int("pin-start", hw.DefaultPinStart, "BCM pin number for the start button")
	pinReset := flag.Int("pin-reset", hw.DefaultPinReset, "BCM pin number for the reset button")
	pinPWM := flag.Int("pin-pwm", hw.DefaultPinPWM, "BCM pin number for the indicator LED")
	printState := flag.Bool("print-state", false, "Print current switch state and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")

	flag.Parse()

	if err := run(*tick, *refresh, *broker, *heartbeat, *chip, *pinStart, *pinReset, *pinPWM, *printState, *httpAddr); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(tick, refresh time.Duration, broker string, heartbeat time.Duration, chip string, pinStart, pinReset, pinPWM int, printState bool, httpAddr string) error {
	// Initialize the input side first; print-state needs nothing else
	bus, err := hw.NewRealBus(chip, hw.DefaultBusPins)
	if err != nil {
		return fmt.Errorf("init input bus: %w", err)
	}
	defer bus.Close()

	if printState {
		in, err := bus.Read()
		if err != nil {
			return fmt.Errorf("read input bus: %w", err)
		}
		fmt.Printf("level: %d, mode: %s\n", in.Level&3, cycle.Classify(in))
		return nil
	}

	buttons, err := hw.NewRealButtons(chip, pinStart, pinReset)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	disp, err := hw.NewRealDisplay(chip, hw.DefaultSegmentPins)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer disp.Close()

	leds, err := hw.NewRealLEDBar(chip, hw.DefaultLEDPins)
	if err != nil {
		return fmt.Errorf("init led bar: %w", err)
	}
	defer leds.Close()

	pwm, err := hw.NewRealPWM(chip, pinPWM, 2*time.Millisecond)
	if err != nil {
		return fmt.Errorf("init pwm: %w", err)
	}
	defer pwm.Close()

	publisher := mqtt.NewRealPublisher(broker)
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      tick.Milliseconds(),
		RefreshMs:   refresh.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      broker,
		HTTPAddr:    httpAddr,
	})

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
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: tick=%v refresh=%v broker=%s heartbeat=%v", tick, refresh, broker, heartbeat)

	tickTicker := time.NewTicker(tick)
	defer tickTicker.Stop()
	refreshTicker := time.NewTicker(refresh)
	defer refreshTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(bus, disp, leds, pwm, publisher, publisher, tracker, heartbeat, time.Now,
		tickTicker.C, refreshTicker.C, buttons.Start(), buttons.Reset(), sigCh)
}

// runLoop is the event dispatcher. It is the only goroutine that touches
// the cycle controller and the display mux, so the three button/tick
// handlers and the display refresh are mutually exclusive by construction;
// everything outside the loop reads state through the status tracker.
func runLoop(bus hw.InputBus, disp hw.DisplaySink, leds hw.LEDBar, pwm hw.PWM,
	publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker,
	heartbeat time.Duration, now func() time.Time,
	tick, refresh <-chan time.Time, startBtn, resetBtn <-chan struct{}, sig <-chan os.Signal) error {

	ctrl := cycle.NewController(now())
	mux := &display.Mux{}
	lastMode := cycle.ModeInvalid

	applyOutputs := func() {
		if err := leds.Set(ctrl.LEDMask()); err != nil {
			log.Printf("led write error: %v", err)
		}
		if err := pwm.SetDuty(ctrl.Duty()); err != nil {
			log.Printf("pwm write error: %v", err)
		}
	}
	publishAll := func(events []cycle.Event) {
		for _, event := range events {
			log.Printf("event: %s (mode=%s phase=%s elapsed=%d)", event.Type, event.Mode, event.Phase, event.Elapsed)
			if err := publisher.Publish(event); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure
			}
		}
	}
	updateTracker := func() {
		tracker.Update(ctrl.State(), lastMode, ctrl.Phase(), ctrl.Elapsed(), ctrl.LEDMask(), ctrl.Duty(), ctrl.CountsSnapshot())
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
	}

	// Idle outputs before the first event
	applyOutputs()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
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
				updateTracker()
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			// Leave the panel dark
			leds.Set(0)
			pwm.SetDuty(cycle.DutyOff)
			disp.Write(0)
			return nil

		case <-startBtn:
			in, err := bus.Read()
			if err != nil {
				log.Printf("bus read error: %v", err)
				continue
			}
			lastMode = cycle.Classify(in)
			events := ctrl.Start(lastMode, now())
			applyOutputs()
			publishAll(events)
			if tracker != nil {
				tracker.SetWaterLevel(in.Level & 3)
				updateTracker()
			}

		case <-resetBtn:
			events := ctrl.Reset(now())
			applyOutputs()
			publishAll(events)
			if tracker != nil {
				updateTracker()
			}

		case <-tick:
			t := now()

			// Heartbeat runs on the tick cadence whether or not a
			// cycle is active.
			if hbData := ctrl.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v started=%d finished=%d resets=%d",
					hbData.Uptime, hbData.Counts.Started, hbData.Counts.Finished, hbData.Counts.Resets)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					updateTracker()
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			if !ctrl.TickEnabled() {
				continue
			}

			in, err := bus.Read()
			if err != nil {
				log.Printf("bus read error: %v", err)
				continue
			}
			lastMode = cycle.Classify(in)
			events := ctrl.Tick(lastMode, t)
			applyOutputs()
			publishAll(events)
			if tracker != nil {
				tracker.SetWaterLevel(in.Level & 3)
				updateTracker()
			}

		case <-refresh:
			in, err := bus.Read()
			if err != nil {
				log.Printf("bus read error: %v", err)
				continue
			}
			if err := disp.Write(mux.Next(in, ctrl.Finished())); err != nil {
				log.Printf("display write error: %v", err)
			}
		}
	}
}
