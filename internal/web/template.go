package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"math"
	"time"

	"github.com/sweeney/farmtech/internal/logic"
	"github.com/sweeney/farmtech/internal/status"
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
	"reading": func(v float64, unit string) string {
		if math.IsNaN(v) {
			return "read failed"
		}
		return fmt.Sprintf("%.1f%s", v, unit)
	},
	"light": func(v int) string {
		if v == logic.LightReadFailed {
			return "read failed"
		}
		return fmt.Sprintf("%d", v)
	},
	"pressed": func(b bool) string {
		if b {
			return "pressed"
		}
		return "released"
	},
	"refresh": func(periodMs int64) int64 {
		if periodMs < 1000 {
			return 1
		}
		return periodMs / 1000
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="{{refresh .Config.PeriodMs}}">
<title>FarmTech Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.fault { color: red; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>FarmTech Controller</h1>

<h2>Output</h2>
<table>
{{if .HaveReading}}<tr><th>Relay / LED</th><td id="mode" class="{{if .State.OutputEnergized}}on{{else}}off{{end}}">{{.State.Mode}}</td></tr>
<tr><th>Sensors valid</th><td>{{if .State.Valid}}yes{{else}}no{{end}}</td></tr>
<tr><th>Button active</th><td>{{if .State.ButtonActive}}yes{{else}}no{{end}}</td></tr>
{{else}}<tr><th>Relay / LED</th><td id="mode" class="unknown">UNKNOWN</td></tr>{{end}}
</table>

{{if .HaveReading}}<h2>Reading</h2>
<table>
<tr><th>Temperature</th><td>{{reading .Reading.Temperature "C"}}</td></tr>
<tr><th>Humidity</th><td>{{reading .Reading.Humidity "%"}}</td></tr>
<tr><th>Light</th><td>{{light .Reading.Light}}</td></tr>
<tr><th>Button P</th><td>{{pressed .Reading.PrimaryPressed}}</td></tr>
<tr><th>Button K</th><td>{{pressed .Reading.SecondaryPressed}}</td></tr>
{{if .Reading.SensorFault}}<tr><th>Sensor</th><td class="fault">read failed</td></tr>{{end}}
</table>{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
<tr><th>Serial</th><td>{{.Config.SerialPort}} @ {{.Config.BaudRate}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Cycle Counts</h2>
<table>
<tr><th>Cycles</th><td>{{.Counts.Cycles}}</td></tr>
<tr><th>Energized</th><td>{{.Counts.Energized}}</td></tr>
<tr><th>Invalid</th><td>{{.Counts.Invalid}}</td></tr>
<tr><th>Sensor faults</th><td>{{.Counts.SensorFaults}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Period</th><td>{{.Config.PeriodMs}}ms</td></tr>
<tr><th>Display</th><td>{{if .Config.Display}}enabled{{else}}disabled{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("web: render: %v", err)
	}
}
