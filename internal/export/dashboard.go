package export

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/sadopc/farmrun/internal/catalog"
	"github.com/sadopc/farmrun/internal/store"
)

// Dashboard writes a standalone HTML report plus its data file next to it
// and returns the report path. The report only consumes the reconciled
// history as a data export; it has no backchannel into the app.
func Dashboard(records []store.RunRecord, dir, initialView string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dashboard dir: %w", err)
	}

	runsJSON, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshal runs: %w", err)
	}
	scenesJSON, err := json.Marshal(catalog.Scenes)
	if err != nil {
		return "", fmt.Errorf("marshal scenes: %w", err)
	}
	itemsJSON, err := json.Marshal(catalog.Items)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}

	dataContent := fmt.Sprintf(
		"const RUN_DATA = {\n  runs: %s,\n  scenes: %s,\n  items: %s,\n  initialView: %q\n};\n",
		runsJSON, scenesJSON, itemsJSON, initialView,
	)

	dataPath := filepath.Join(dir, "dashboard-data.js")
	if err := os.WriteFile(dataPath, []byte(dataContent), 0o644); err != nil {
		return "", fmt.Errorf("write dashboard data: %w", err)
	}

	htmlPath := filepath.Join(dir, "dashboard.html")
	if err := os.WriteFile(htmlPath, []byte(dashboardHTML), 0o644); err != nil {
		return "", fmt.Errorf("write dashboard html: %w", err)
	}
	return htmlPath, nil
}

// OpenInBrowser opens the report with the platform default handler. Best
// effort; callers log the error and move on.
func OpenInBrowser(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>farmrun report</title>
<style>
body{margin:0;background:#0d1117;color:#c9d1d9;font-family:monospace;padding:24px}
h1{font-size:18px;color:#e4e4e7}
.cards{display:flex;gap:8px;flex-wrap:wrap;margin-bottom:16px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:10px 16px;min-width:110px}
.card-val{font-size:20px;font-weight:700;color:#c9d1d9}
.card-lbl{font-size:10px;color:#8b949e;text-transform:uppercase;letter-spacing:.5px}
table{border-collapse:collapse;width:100%;margin-bottom:16px}
th,td{border:1px solid #30363d;padding:6px 10px;font-size:12px;text-align:left}
th{background:#161b22;color:#8b949e}
.tz{color:#fb923c}
#chart{border:1px solid #30363d;border-radius:4px;background:#161b22;margin-bottom:16px}
.drop{font-size:12px;padding:2px 0}
</style>
<script src="dashboard-data.js"></script>
</head>
<body>
<h1>farmrun report</h1>
<div class="cards" id="cards"></div>
<canvas id="chart" width="900" height="160"></canvas>
<table id="scenes"><thead><tr><th>Scene</th><th>Runs</th><th>Drops</th><th>Avg</th><th>Total</th></tr></thead><tbody></tbody></table>
<div id="drops"></div>
<script>
const fmt = ms => {
  const m = Math.floor(ms/60000), s = Math.floor(ms%60000/1000);
  return String(m).padStart(2,'0') + ':' + String(s).padStart(2,'0');
};
const runs = RUN_DATA.runs || [];
const items = new Map((RUN_DATA.items||[]).map(i => [i.ID, i]));

let total = 0, best = Infinity, drops = 0, tz = 0;
runs.forEach(r => { total += r.duration_ms; if (r.duration_ms < best) best = r.duration_ms;
  drops += (r.drops||[]).length; if (r.is_tz) tz++; });
const cards = [
  ['Runs', runs.length],
  ['Total', fmt(total)],
  ['Best', runs.length ? fmt(best) : '--:--'],
  ['Average', runs.length ? fmt(Math.floor(total/runs.length)) : '--:--'],
  ['Drops', drops],
  ['TZ runs', tz],
];
document.getElementById('cards').innerHTML = cards.map(([l,v]) =>
  '<div class="card"><div class="card-val">'+v+'</div><div class="card-lbl">'+l+'</div></div>').join('');

const byScene = new Map();
runs.forEach(r => {
  const s = byScene.get(r.scene_id) || {count:0, drops:0, time:0};
  s.count++; s.drops += (r.drops||[]).length; s.time += r.duration_ms;
  byScene.set(r.scene_id, s);
});
document.querySelector('#scenes tbody').innerHTML =
  [...byScene.entries()].sort((a,b) => b[1].count - a[1].count).map(([name,s]) =>
    '<tr><td>'+name+'</td><td>'+s.count+'</td><td>'+s.drops+'</td><td>'+
    fmt(Math.floor(s.time/s.count))+'</td><td>'+fmt(s.time)+'</td></tr>').join('');

const byDay = new Map();
runs.forEach(r => byDay.set(r.date_str, (byDay.get(r.date_str)||0)+1));
const days = [...byDay.keys()].sort();
const ctx = document.getElementById('chart').getContext('2d');
const maxCount = Math.max(1, ...byDay.values());
const bw = Math.max(8, Math.min(40, 880/Math.max(1, days.length)));
days.forEach((d, i) => {
  const h = byDay.get(d)/maxCount*120;
  ctx.fillStyle = '#6C63FF';
  ctx.fillRect(10 + i*bw, 140 - h, bw - 2, h);
});

document.getElementById('drops').innerHTML = runs
  .filter(r => (r.drops||[]).length)
  .map(r => r.drops.map(id => {
    const it = items.get(id);
    const name = it ? it.Name : id.startsWith('custom:') ? id.split(':')[1] : id;
    const color = it ? it.Color : '#e4e4e7';
    return '<div class="drop"><span style="color:'+color+'">'+name+'</span>'+
      ' <span class="tz">'+(r.is_tz ? 'TZ' : '')+'</span> - '+r.scene_id+' ('+r.date_str+')</div>';
  }).join('')).join('');
</script>
</body>
</html>
`
