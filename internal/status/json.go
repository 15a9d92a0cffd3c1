package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	State         string     `json:"state"`
	Mode          string     `json:"mode"`
	Phase         string     `json:"phase,omitempty"`
	ElapsedTicks  uint8      `json:"elapsed_ticks"`
	LEDBar        string     `json:"led_bar"`
	Duty          uint8      `json:"duty"`
	WaterLevel    uint8      `json:"water_level"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Started      int `json:"cycles_started"`
	PhaseChanges int `json:"phase_changes"`
	Finished     int `json:"cycles_finished"`
	Resets       int `json:"resets"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64  `json:"tick_ms"`
	RefreshMs   int64  `json:"refresh_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

// LEDBarString renders a 4-bit mask as the bar seen on the device,
// position 0 leftmost.
func LEDBarString(mask uint8) string {
	out := make([]byte, 4)
	for i := 0; i < 4; i++ {
		if mask>>i&1 == 1 {
			out[i] = '#'
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		State:         string(snap.State),
		Mode:          string(snap.Mode),
		Phase:         string(snap.Phase),
		ElapsedTicks:  snap.Elapsed,
		LEDBar:        fmt.Sprintf("%s (0b%04b)", LEDBarString(snap.LEDMask), snap.LEDMask),
		Duty:          snap.Duty,
		WaterLevel:    snap.WaterLevel,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Started:      snap.Counts.Started,
			PhaseChanges: snap.Counts.PhaseChanges,
			Finished:     snap.Counts.Finished,
			Resets:       snap.Counts.Resets,
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			RefreshMs:   snap.Config.RefreshMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
