package handler

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(tmplPage))

const tmplPage = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Presence analyzer - {{.Title}}</title>
<script src="https://www.gstatic.com/charts/loader.js"></script>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 0; color: #1b1b1b; }
  #header ul { list-style: none; margin: 0; padding: 12px 24px; background: #0c3b2e; }
  #header li { display: inline-block; margin-right: 16px; }
  #header a { color: #f7f4ef; text-decoration: none; }
  #header li#selected a { font-weight: bold; border-bottom: 2px solid #c8a26b; }
  #content { padding: 24px; }
  #user_photo img { max-height: 120px; margin: 12px 0; }
  #chart_div { width: 900px; height: 500px; }
  .error { color: #b42318; }
</style>
</head>
<body>
<div id="header">
  <ul>
  {{- range .Views}}
    <li{{if eq .PagePath $.NavSelected}} id="selected"{{end}}><a href="{{.PagePath}}">{{.Title}}</a></li>
  {{- end}}
  </ul>
</div>
<div id="content">
  <h2>{{.Title}}</h2>
  <p>
    <select id="user_id" style="display: none">
      <option value="">--</option>
    </select>
    <span id="loading">Loading...</span>
  </p>
  <p class="error" id="errors"></p>
  <div id="user_photo" style="display: none"></div>
  <div id="chart_div" style="display: none"></div>
</div>
<script>
(function () {
  var view = {{.View}};
  var state = {{.Snapshot}};
  var chartsReady = false;
  var pending = null;

  google.charts.load("current", {packages: ["corechart", "timeline"], language: "en"});
  google.charts.setOnLoadCallback(function () {
    chartsReady = true;
    if (pending) { draw(pending); pending = null; }
  });

  function show(id, visible) {
    document.getElementById(id).style.display = visible ? "" : "none";
  }

  function draw(chart) {
    if (!chartsReady) { pending = chart; return; }
    var data = new google.visualization.DataTable(chart.data);
    var el = document.getElementById(chart.container);
    var c = chart.type === "Timeline"
      ? new google.visualization.Timeline(el)
      : new google.visualization[chart.type](el);
    c.draw(data, chart.options || {});
  }

  function apply(s) {
    if (s.version < state.version) { return; }
    state = s;
    var sel = document.getElementById("user_id");
    if (sel.options.length !== s.selector.options.length + 1) {
      sel.length = 1;
      s.selector.options.forEach(function (o) {
        sel.add(new Option(o.label, o.value, false, o.selected));
      });
    }
    show("user_id", s.selector.visible);
    show("loading", s.loading.visible);
    var photo = document.getElementById("user_photo");
    if (s.photo.content !== undefined && photo.innerHTML !== s.photo.content) {
      photo.innerHTML = s.photo.content;
    }
    show("user_photo", s.photo.visible);
    if (s.chart.visible && s.chart.chart) { draw(s.chart.chart); }
    show("chart_div", s.chart.visible);
    if (s.nav_selected) {
      document.querySelectorAll("#header li").forEach(function (li) {
        if (li.querySelector("a").getAttribute("href") === s.nav_selected) { li.id = "selected"; }
        else { li.removeAttribute("id"); }
      });
    }
    var errs = s.errors || {};
    document.getElementById("errors").textContent =
      Object.keys(errs).map(function (k) { return errs[k]; }).join(" ");
  }

  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/dashboard/ws?view=" + encodeURIComponent(view));
  ws.onmessage = function (ev) { apply(JSON.parse(ev.data)); };

  document.getElementById("user_id").addEventListener("change", function () {
    ws.send(JSON.stringify({type: "selection.change", user_id: this.value}));
  });

  apply(state);
})();
</script>
</body>
</html>
`
