package web

import "html/template"

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 260px; padding: 1.5rem; background: #f0f2f6; min-height: 100vh; }
main { flex: 1; padding: 1.5rem 3rem; }
.columns { display: flex; gap: 2rem; }
.columns > .wide { flex: 2; } .columns > .narrow { flex: 1; }
.spinner { display: none; }
.spinner.active { display: block; }
img.preview { max-width: 100%; }
.error { color: #b00020; }
.info { background: #e8f0fe; padding: .75rem; }
</style>
</head>
<body>
<aside>
<h2>Help</h2>
<h3>How to Use</h3>
<ol>{{range .Steps}}<li>{{.}}</li>{{end}}</ol>
<p>If you have any questions or need further assistance, feel free to reach out to us!</p>
</aside>
<main>
<h1>{{.Title}}</h1>
<p>{{.Intro}}</p>
<form id="upload" action="/classify" method="post" enctype="multipart/form-data">
<label>Choose an image... <input type="file" name="image" accept=".jpg,.jpeg,.png"></label>
</form>
<div id="local"></div>
<div id="spinner" class="spinner">Classifying image...</div>
<div id="result"><p class="info">Upload an image to classify.</p></div>
</main>
<script>
const form = document.getElementById('upload');
const input = form.querySelector('input[type=file]');
input.addEventListener('change', async () => {
  const file = input.files[0];
  if (!file) return;
  const local = document.getElementById('local');
  const result = document.getElementById('result');
  const spinner = document.getElementById('spinner');
  local.innerHTML = '';
  result.innerHTML = '';
  const img = document.createElement('img');
  img.className = 'preview';
  img.alt = 'Uploaded Image';
  img.src = URL.createObjectURL(file);
  local.appendChild(img);
  spinner.classList.add('active');
  try {
    const resp = await fetch('/classify', { method: 'POST', body: new FormData(form) });
    result.innerHTML = await resp.text();
    local.innerHTML = '';
  } catch (e) {
    result.innerHTML = '<p class="error">Request failed: ' + e + '</p>';
  } finally {
    spinner.classList.remove('active');
  }
});
</script>
</body>
</html>
`))

var resultTmpl = template.Must(template.New("result").Parse(`{{if .Preview}}<figure><img class="preview" src="{{.Preview}}" alt="Uploaded Image"><figcaption>Uploaded Image</figcaption></figure>{{end}}
<div class="columns">
<section class="wide">
<h2>Prediction Result</h2>
<p><strong>Predicted Class:</strong> {{.Report.Label}}</p>
<p><strong>Prediction Probabilities:</strong></p>
<ul>{{range .Report.Probabilities}}<li>{{.Label}}: {{.Percent}}</li>{{end}}</ul>
</section>
<section class="narrow">
<h2>Class Descriptions</h2>
<p>{{.Report.Description}}</p>
</section>
</div>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<p class="error">{{.}}</p>
`))
