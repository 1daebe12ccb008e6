package server

import "html/template"

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Antarctic Explorer</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f4f6fb; }
header { padding: 12px 20px; background: #2c3e91; color: #fff; font-size: 20px; }
.row { display: flex; gap: 16px; padding: 16px 20px; flex-wrap: wrap; }
.card { background: #fff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,.15); padding: 12px 16px; flex: 1; min-width: 280px; }
.card h2 { font-size: 15px; margin: 0 0 8px; color: #444; }
.value-box { background: linear-gradient(135deg, #3a66d8, #7b3fc4); color: #fff; }
.value-box .value { font-size: 32px; font-weight: 600; }
.gauge { position: relative; height: 22px; display: flex; border-radius: 4px; overflow: hidden; }
.gauge-needle { position: absolute; top: -4px; width: 4px; height: 30px; background: blue; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 4px 8px; border-bottom: 1px solid #e3e3e3; }
#map { height: 360px; }
#chart { width: 100%; }
</style>
</head>
<body>
<header>Antarctic Explorer</header>
<div class="row">
  <div class="card value-box"><h2>Current Temperature</h2><div class="value" id="current-temp">&ndash;</div></div>
  <div class="card"><h2>Current Temperature Indicator</h2>
    <div class="gauge" id="gauge"></div>
    <div id="gauge-label"></div>
  </div>
  <div class="card value-box"><h2>Current Date and Time</h2><div class="value" id="current-time">&ndash;</div></div>
</div>
<div class="row">
  <div class="card"><h2>Recent Temperature Readings</h2>
    <table><thead><tr><th>temp</th><th>timestamp</th></tr></thead><tbody id="readings"></tbody></table>
  </div>
</div>
<div class="row">
  <div class="card"><h2>Temperature Trend</h2><img id="chart" alt="Temperature trend"></div>
  <div class="card"><h2>McMurdo Station Location</h2><div id="map"></div></div>
</div>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script>
function renderGauge(g) {
  const el = document.getElementById("gauge");
  const span = g.max - g.min;
  el.innerHTML = "";
  g.bands.forEach(b => {
    const d = document.createElement("div");
    d.style.width = ((b.to - b.from) / span * 100) + "%";
    d.style.background = b.color;
    el.appendChild(d);
  });
  const needle = document.createElement("div");
  needle.className = "gauge-needle";
  const pos = Math.min(Math.max(g.value, g.min), g.max);
  needle.style.left = ((pos - g.min) / span * 100) + "%";
  needle.style.background = g.bar_color;
  el.appendChild(needle);
  document.getElementById("gauge-label").textContent = g.title + ": " + g.value.toFixed(1);
}

function render(d) {
  document.getElementById("current-temp").textContent = d.current_temperature;
  document.getElementById("current-time").textContent = d.current_time;
  renderGauge(d.gauge);
  const body = document.getElementById("readings");
  body.innerHTML = "";
  d.table.rows.forEach(r => {
    const tr = document.createElement("tr");
    [r.temp.toFixed(1), r.timestamp].forEach(v => {
      const td = document.createElement("td");
      td.textContent = v;
      tr.appendChild(td);
    });
    body.appendChild(tr);
  });
  document.getElementById("chart").src = "/charts/trend.svg?cycle=" + d.cycle;
}

fetch("/api/map").then(r => r.json()).then(m => {
  const map = L.map("map", {minZoom: m.min_zoom, maxZoom: m.max_zoom}).setView([m.center.lat, m.center.lng], m.zoom);
  L.tileLayer("https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png", {attribution: m.tiles}).addTo(map);
  L.marker([m.marker.position.lat, m.marker.position.lng]).bindPopup(m.marker.popup).bindTooltip(m.marker.tooltip).addTo(map);
  L.circle([m.circle.center.lat, m.circle.center.lng], {radius: m.circle.radius_m, color: m.circle.color, fill: m.circle.fill, fillColor: m.circle.fill_color}).addTo(map);
  map.fitBounds([[m.bounds[0].lat, m.bounds[0].lng], [m.bounds[1].lat, m.bounds[1].lng]]);
});

fetch("/api/feed").then(r => r.ok ? r.json() : null).then(d => { if (d) render(d); });

const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = ev => {
  const msg = JSON.parse(ev.data);
  if (msg.dashboard) render(msg.dashboard);
};
</script>
</body>
</html>
`))

var tablePage = template.Must(template.New("table").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Dataset Explorer</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; display: flex; min-height: 100vh; }
aside { width: 260px; background: #eef1f7; padding: 16px; box-sizing: border-box; }
main { flex: 1; padding: 16px; overflow-x: auto; }
table { border-collapse: collapse; }
th, td { text-align: left; padding: 4px 10px; border-bottom: 1px solid #ddd; white-space: nowrap; }
.empty { color: #777; }
</style>
</head>
<body>
<aside>
  <h2>Dataset</h2>
  {{- if .Dataset}}
  <p><a href="{{.Dataset.Source}}">source</a></p>
  <p>{{len .Dataset.Rows}} rows, {{len .Dataset.Columns}} columns</p>
  <ul>{{range .Dataset.Columns}}<li>{{.}}</li>{{end}}</ul>
  <form method="get" action="/table">
    <input type="text" name="filter" value="{{.Filter}}" placeholder="Filter rows">
    <button type="submit">Apply</button>
  </form>
  {{- else}}
  <p class="empty">The dataset could not be loaded.</p>
  {{- end}}
</aside>
<main>
  {{- if .Dataset}}
  <table>
    <thead><tr>{{range .Dataset.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>
    {{- range .Rows}}
      <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{- end}}
    </tbody>
  </table>
  {{- else}}
  <p class="empty">No data available.</p>
  {{- end}}
</main>
</body>
</html>
`))
