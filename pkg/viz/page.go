package viz

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<title>slam live map</title>
<style>
body { background: #222; color: #ddd; font-family: monospace; text-align: center; }
img { image-rendering: pixelated; border: 1px solid #555; margin-top: 1em; }
</style>
</head>
<body>
<div id="pose">waiting for telemetry ...</div>
<img id="map" width="512">
<script>
var ws = new WebSocket("ws://" + location.host + "/live");
ws.onmessage = function (ev) {
	var f = JSON.parse(ev.data);
	document.getElementById("map").src = "data:image/png;base64," + f.png;
	document.getElementById("pose").textContent =
		"x " + f.x.toFixed(1) + "cm  y " + f.y.toFixed(1) +
		"cm  heading " + (f.heading * 180 / Math.PI).toFixed(1) + "°";
};
ws.onclose = function () {
	document.getElementById("pose").textContent = "disconnected";
};
</script>
</body>
</html>
`
