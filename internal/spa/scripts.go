package spa

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Script is one <script> element found in rendered content.
type Script struct {
	Src  string `json:"src,omitempty"`
	Type string `json:"type,omitempty"`
	Body string `json:"body,omitempty"`
}

// ScriptRunner executes the scripts of freshly rendered content. Markup
// replacement alone never runs them.
type ScriptRunner interface {
	Run(route string, scripts []Script) error
}

// ScriptRunnerFunc adapts a function to ScriptRunner.
type ScriptRunnerFunc func(route string, scripts []Script) error

func (f ScriptRunnerFunc) Run(route string, scripts []Script) error { return f(route, scripts) }

// ExtractScripts returns the script elements of an HTML fragment in
// document order.
func ExtractScripts(content string) ([]Script, error) {
	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(content), parent)
	if err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}

	var scripts []Script
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script {
			s := Script{}
			for _, a := range n.Attr {
				switch a.Key {
				case "src":
					s.Src = a.Val
				case "type":
					s.Type = a.Val
				}
			}
			var body strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					body.WriteString(c.Data)
				}
			}
			s.Body = body.String()
			scripts = append(scripts, s)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return scripts, nil
}

func errorMarkup(message string) string {
	return `<div class="error-message"><h2>Erro ao carregar página</h2><p>` + html.EscapeString(message) + `</p></div>`
}
