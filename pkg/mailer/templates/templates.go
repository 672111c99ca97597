package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
)

// Template names.
const (
	Welcome = "welcome"
)

const welcomeSubject = "Bem-vindo à Ressonância"

const welcomeText = `Olá {{.Name}},

Sua consciência agora faz parte do núcleo social.

Publique um pensamento e descubra quantas pessoas ressoam com ele.
Nenhum nome, nenhum rosto: apenas ideias.

— Ressonância
`

const welcomeHTML = `<!DOCTYPE html>
<html lang="pt-BR">
<body style="font-family: sans-serif; background: #050505; color: #ffffff; padding: 32px;">
  <h2>Olá {{.Name}},</h2>
  <p>Sua consciência agora faz parte do núcleo social.</p>
  <p>Publique um pensamento e descubra quantas pessoas ressoam com ele.<br>
     Nenhum nome, nenhum rosto: apenas ideias.</p>
  <p style="color: #888888;">— Ressonância</p>
</body>
</html>
`

type welcomeData struct {
	Name string
}

// Render renders a named template with the job data, returning subject, text
// and HTML bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case Welcome:
		d := welcomeData{Name: "explorador"}
		if v, ok := data["name"].(string); ok && v != "" {
			d.Name = v
		}
		text, err = renderText(welcomeText, d)
		if err != nil {
			return "", "", "", err
		}
		html, err = renderHTML(welcomeHTML, d)
		if err != nil {
			return "", "", "", err
		}
		return welcomeSubject, text, html, nil
	default:
		return "", "", "", fmt.Errorf("unknown email template: %s", name)
	}
}

func renderText(tpl string, data any) (string, error) {
	t, err := texttpl.New("text").Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(tpl string, data any) (string, error) {
	t, err := htmpl.New("html").Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
