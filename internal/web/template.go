package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/wbarker/washctl/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"ledbar": func(mask uint8) string {
		return status.LEDBarString(mask)
	},
	"brightness": func(duty uint8) string {
		// Inverted polarity: 255 = off.
		pct := (255 - int(duty)) * 100 / 255
		return fmt.Sprintf("%d%%", pct)
	},
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>washctl</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.active { color: green; font-weight: bold; }
.idle { color: #888; }
.finished { color: #06c; font-weight: bold; }
.invalid { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.bar { letter-spacing: 4px; font-weight: bold; }
</style>
</head>
<body>
<h1>washctl</h1>

<table>
<tr><th>State</th><td class="{{if eq .State "ACTIVE"}}active{{else if eq .State "FINISHED"}}finished{{else}}idle{{end}}">{{.State}}</td></tr>
<tr><th>Mode</th><td class="{{if eq .Mode "INVALID"}}invalid{{end}}">{{.Mode}}</td></tr>
<tr><th>Phase</th><td>{{orDash (printf "%s" .Phase)}}</td></tr>
<tr><th>Elapsed ticks</th><td>{{.Elapsed}}</td></tr>
<tr><th>Progress bar</th><td class="bar">{{ledbar .LEDMask}}</td></tr>
<tr><th>Indicator LED</th><td>{{brightness .Duty}}</td></tr>
<tr><th>Water level</th><td>{{.WaterLevel}}</td></tr>
</table>

<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Cycles started</th><td>{{.Counts.Started}}</td></tr>
<tr><th>Phase changes</th><td>{{.Counts.PhaseChanges}}</td></tr>
<tr><th>Cycles finished</th><td>{{.Counts.Finished}}</td></tr>
<tr><th>Resets</th><td>{{.Counts.Resets}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})</td></tr>
</table>

<table>
<tr><th>Tick period</th><td>{{.Config.TickMs}} ms</td></tr>
<tr><th>Refresh period</th><td>{{.Config.RefreshMs}} ms</td></tr>
<tr><th>Heartbeat</th><td>{{.Config.HeartbeatMs}} ms</td></tr>
</table>

<p><a href="/index.json">index.json</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("render status page: %v", err)
	}
}
