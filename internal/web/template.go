package web

import (
	"html/template"
	"io"
	"log"
	"time"

	"github.com/calder/rfboard/internal/status"
)

var pageTmpl = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="2">
<title>rfboard status</title>
<style>
body { font-family: monospace; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #999; padding: 4px 10px; text-align: left; }
.ok { color: #070; }
.bad { color: #b00; font-weight: bold; }
</style>
</head>
<body>
<h1>rfboard</h1>
<table>
<tr><th>Current 1</th><td>{{printf "%.3f" .Current1}} A{{if .Over1}} <span class="bad">OVER LIMIT</span>{{end}}</td></tr>
<tr><th>Current 2</th><td>{{printf "%.3f" .Current2}} A{{if .Over2}} <span class="bad">OVER LIMIT</span>{{end}}</td></tr>
<tr><th>Current limit</th><td>{{printf "%.3f" .CurrentLimit}} A</td></tr>
<tr><th>Load voltage</th><td>{{printf "%.2f" .LoadVoltage}} V</td></tr>
<tr><th>Battery</th><td>{{printf "%.2f" .BatteryVolts}} V ({{.BatterySOC}}%)</td></tr>
<tr><th>Calibrated</th><td>{{if .Calibrated}}<span class="ok">yes</span>{{else}}<span class="bad">no</span>{{end}}</td></tr>
<tr><th>Watchdog</th><td>{{if .WatchdogArmed}}<span class="ok">armed</span>{{else}}disarmed{{end}}</td></tr>
<tr><th>Link</th><td>{{if .LinkConnected}}<span class="ok">connected</span>{{else}}<span class="bad">down</span>{{end}}</td></tr>
<tr><th>Uptime</th><td>{{.UptimeString}}</td></tr>
</table>
<p><a href="/index.json">JSON</a> &middot; <a href="/metrics">metrics</a></p>
</body>
</html>
`))

// pageData wraps a snapshot with display helpers.
type pageData struct {
	status.Snapshot
}

// UptimeString formats uptime at second resolution.
func (p pageData) UptimeString() string {
	return p.Uptime().Truncate(time.Second).String()
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := pageTmpl.Execute(w, pageData{snap}); err != nil {
		log.Printf("web: render status page: %v", err)
	}
}
