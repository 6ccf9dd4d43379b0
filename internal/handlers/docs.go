package handlers

const docsPage = `<!DOCTYPE html>
<html>
<head>
<title>Cricket Stats API</title>
<style>
body { font-family: Arial, sans-serif; max-width: 820px; margin: 0 auto; padding: 20px; }
h1 { color: #004d99; }
h2 { color: #0066cc; margin-top: 30px; }
pre { background-color: #f4f4f4; padding: 10px; border-radius: 5px; overflow-x: auto; }
.endpoint { margin-bottom: 18px; padding: 10px; border-left: 3px solid #0066cc; }
.method { font-weight: bold; color: #004d99; }
.url { color: #0066cc; font-family: monospace; }
</style>
</head>
<body>
<h1>Cricket Stats API</h1>
<p>Live IPL match data: scores, batting and bowling cards, and ball-by-ball commentary.</p>

<h2>Endpoints</h2>

<div class="endpoint">
<p><span class="method">GET</span> <span class="url">/api/match/{match_id}?tournament_id={tournament_id}&amp;refresh=true|false</span></p>
<p>Complete match state. The match is tracked from its first request.</p>
</div>

<div class="endpoint">
<p><span class="method">POST</span> <span class="url">/api/match/{match_id}/refresh</span></p>
<pre>Content-Type: application/json

{"tournament_id": "8307"}</pre>
<p>Fetches the match page again immediately.</p>
</div>

<div class="endpoint">
<p><span class="method">GET</span> <span class="url">/api/matches</span></p>
<p>Every tracked match with its teams, scores and update phase.</p>
</div>

<div class="endpoint">
<p><span class="method">GET</span> <span class="url">/api/match/{match_id}/commentary?tournament_id={tournament_id}&amp;refresh=true|false</span></p>
<p>The most recent commentary entries only.</p>
</div>

<div class="endpoint">
<p><span class="method">GET</span> <span class="url">/api/match/{match_id}/scorecard?tournament_id={tournament_id}&amp;refresh=true|false</span></p>
<p>Batting and bowling cards for the innings played so far, with the current phase.</p>
</div>

<div class="endpoint">
<p><span class="method">POST</span> <span class="url">/api/match/{match_id}/snapshot?tournament_id={tournament_id}</span></p>
<p>Stores a copy of the current match state.</p>
</div>

<div class="endpoint">
<p><span class="method">GET</span> <span class="url">/api/match/{match_id}/debug?tournament_id={tournament_id}</span></p>
<p>Raw page captures, snapshots and update diagnostics. Requires the <code>X-API-Key</code> header.</p>
</div>

<div class="endpoint">
<p><span class="method">GET</span> <span class="url">/ws</span></p>
<pre>{"type": "subscribe", "payload": {"matches": ["253699_8307"]}}</pre>
<p>Live <code>match_update</code> messages. An empty subscription receives every match.</p>
</div>

<h2>Finding match IDs</h2>
<p>Open the match on Bing Cricket and take the GameId parameter from the page URL. The default IPL tournament ID is 8307.</p>
</body>
</html>
`
