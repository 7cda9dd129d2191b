package bundle

import (
	"html/template"
	"strings"
	"unicode"
)

const (
	sampleLatin   = "The quick brown fox jumps over the lazy dog. 0123456789"
	sampleChinese = "字体子集化演示：你好世界，这是一段测试文本。"
	maxShowcase   = 256
)

type demoData struct {
	*Package
	Samples  []string
	Sizes    []int
	Showcase string
}

// sampleTexts selects sample sentences matching the codepoints of a package.
// Packages without Latin letters or CJK ideographs get a sample of their own
// characters.
func sampleTexts(p *Package) []string {
	var latin, cjk bool
	for _, f := range p.Files {
		latin = latin || f.Codepoints.Contains('a') || f.Codepoints.Contains('A')
		for _, r := range f.Codepoints {
			if unicode.Is(unicode.Han, r) {
				cjk = true
				break
			}
		}
	}
	var samples []string
	if latin {
		samples = append(samples, sampleLatin)
	}
	if cjk {
		samples = append(samples, sampleChinese)
	}
	if len(samples) == 0 {
		samples = append(samples, showcase(p, 64))
	}
	return samples
}

// showcase returns up to max graphic characters covered by a package.
func showcase(p *Package, max int) string {
	var b strings.Builder
	n := 0
	for _, f := range p.Files {
		for _, r := range f.Codepoints {
			if n == max {
				return b.String()
			}
			if unicode.IsGraphic(r) && !unicode.IsSpace(r) {
				b.WriteRune(r)
				n++
			}
		}
	}
	return b.String()
}

var demo = template.Must(template.New("demo").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Font Subset Demo - {{.Family}}</title>
    <link rel="stylesheet" href="styles/font.css">
    <style>
        body {
            font-family: '{{.Family}}', -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
            font-weight: {{.Weight}};
            font-style: {{.Style}};
            line-height: 1.6;
            color: #333;
            background: #f0f1f7;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 1200px; margin: 0 auto; background: white; border-radius: 12px; overflow: hidden; }
        .header { background: #667eea; color: white; padding: 40px; text-align: center; }
        .content { padding: 40px; }
        .section { margin-bottom: 40px; }
        .section h2 { color: #667eea; border-bottom: 3px solid #667eea; padding-bottom: 10px; }
        .demo-text { font-size: 1.5em; padding: 30px; background: #f8f9fa; border-left: 4px solid #667eea; white-space: pre-wrap; word-wrap: break-word; }
        .sizes { display: flex; flex-wrap: wrap; gap: 20px; }
        .size-demo { flex: 1; min-width: 200px; padding: 20px; background: #f8f9fa; text-align: center; }
        .size-label { font-size: 0.9em; color: #666; }
        table { border-collapse: collapse; width: 100%; }
        td, th { text-align: left; padding: 6px 12px; border-bottom: 1px solid #ddd; }
        .footer { background: #f8f9fa; padding: 20px; text-align: center; color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Family}}</h1>
            <p>Font subset demo page</p>
        </div>
        <div class="content">
            <div class="section">
                <h2>Preview</h2>
                {{- range .Samples}}
                <div class="demo-text">{{.}}</div>
                {{- end}}
            </div>
            <div class="section">
                <h2>Sizes</h2>
                <div class="sizes">
                    {{- $sample := index .Samples 0}}
                    {{- range .Sizes}}
                    <div class="size-demo">
                        <div class="size-label">{{.}}px</div>
                        <div style="font-size: {{.}}px">{{$sample}}</div>
                    </div>
                    {{- end}}
                </div>
            </div>
            {{- if .Showcase}}
            <div class="section">
                <h2>Characters</h2>
                <div class="demo-text">{{.Showcase}}</div>
            </div>
            {{- end}}
            <div class="section">
                <h2>Files</h2>
                <table>
                    <tr><th>File</th><th>Characters</th><th>Bytes</th><th>unicode-range</th></tr>
                    {{- range .Files}}
                    <tr><td>{{.Name}}</td><td>{{.Codepoints.Len}}</td><td>{{.Size}}</td><td>{{.Ranges}}</td></tr>
                    {{- end}}
                </table>
                <p>{{len .Files}} subset files, {{.TotalCharacters}} characters, weight {{.Weight}}, style {{.Style}}</p>
            </div>
            <div class="section">
                <h2>Usage</h2>
                <p>
                    1. Copy the <code>fonts</code> and <code>styles</code> folders to your project<br>
                    2. Include the style sheet: <code>&lt;link rel="stylesheet" href="styles/font.css"&gt;</code><br>
                    3. Use the font: <code>font-family: '{{.Family}}';</code>
                </p>
            </div>
        </div>
        <div class="footer">
            <p>Generated by Font Subset Tool{{if not .Created.IsZero}} | {{.Created.Format "2006-01-02 15:04:05"}}{{end}}</p>
        </div>
    </div>
</body>
</html>
`))

// DemoHTML renders a demo page using the style sheet of a package.
func DemoHTML(p *Package) (string, error) {
	data := demoData{
		Package:  p,
		Samples:  sampleTexts(p),
		Sizes:    []int{12, 16, 24, 32, 48, 64},
		Showcase: showcase(p, maxShowcase),
	}
	var b strings.Builder
	if err := demo.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
