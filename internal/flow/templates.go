package flow

import (
	"bytes"
	"fmt"
	"html/template"
)

// autoSubmitTemplate is the browser auto-submit form used on both legs
// that must hand a SAML message back to a browser for POST delivery
// (spec.md §6.2). dest and relayState are HTML-attribute-escaped via
// html/template's autoescaping (Open Question 1, resolved); the base64
// payload needs no escaping since base64 output cannot contain
// HTML-special characters.
var autoSubmitTemplate = template.Must(template.New("autosubmit").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Continue</title></head>
<body onload="document.forms[0].submit()">
<noscript><p>Click the button below to continue.</p></noscript>
<form method="post" action="{{.Dest}}">
<input type="hidden" name="SAMLResponse" value="{{.B64}}" />
{{if .RelayState}}<input type="hidden" name="RelayState" value="{{.RelayState}}" />{{end}}
<noscript><input type="submit" value="Continue" /></noscript>
</form>
</body>
</html>
`))

type autoSubmitData struct {
	Dest       string
	B64        string
	RelayState string
}

// renderAutoSubmit renders the auto-submit HTML form posting b64 to dest,
// including RelayState only when non-empty.
func renderAutoSubmit(dest, b64, relayState string) ([]byte, error) {
	var buf bytes.Buffer
	if err := autoSubmitTemplate.Execute(&buf, autoSubmitData{Dest: dest, B64: b64, RelayState: relayState}); err != nil {
		return nil, fmt.Errorf("flow: rendering auto-submit form: %w", err)
	}
	return buf.Bytes(), nil
}

// discoveryTemplate renders the discovery UI: a typeahead search box that
// calls GET /api/entities/search and a form posting the chosen entity ID
// back to POST /discovery (spec.md §6.1, §4.6).
var discoveryTemplate = template.Must(template.New("discovery").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Select your institution</title></head>
<body>
<h1>Select your institution</h1>
<form method="post" action="/discovery">
<input type="hidden" name="session" value="{{.SessionID}}" />
<input type="text" id="entity-search" autocomplete="off" placeholder="Start typing your institution name" />
<select name="entity_id" id="entity-select" size="8"></select>
<button type="submit">Continue</button>
</form>
<script>
document.getElementById('entity-search').addEventListener('input', function (ev) {
  fetch('/api/entities/search?q=' + encodeURIComponent(ev.target.value))
    .then(function (r) { return r.json(); })
    .then(function (entries) {
      var select = document.getElementById('entity-select');
      select.innerHTML = '';
      entries.forEach(function (e) {
        var opt = document.createElement('option');
        opt.value = e.entity_id;
        opt.textContent = e.display_name;
        select.appendChild(opt);
      });
    });
});
</script>
</body>
</html>
`))

type discoveryPageData struct {
	SessionID string
}

func renderDiscoveryPage(sessionID string) ([]byte, error) {
	var buf bytes.Buffer
	if err := discoveryTemplate.Execute(&buf, discoveryPageData{SessionID: sessionID}); err != nil {
		return nil, fmt.Errorf("flow: rendering discovery page: %w", err)
	}
	return buf.Bytes(), nil
}
