package dom

import "strings"

type declaration struct {
	prop, value string
}

func parseStyle(s string) []declaration {
	var out []declaration
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out = append(out, declaration{prop: prop, value: strings.TrimSpace(value)})
	}
	return out
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.value)
	}
	return strings.Join(parts, "; ")
}

// Style returns one inline style property.
func (e *Element) Style(prop string) string {
	v, _ := e.Attr("style")
	for _, d := range parseStyle(v) {
		if d.prop == prop {
			return d.value
		}
	}
	return ""
}

// SetStyle sets one inline style property; an empty value removes it.
func (e *Element) SetStyle(prop, value string) {
	v, _ := e.Attr("style")
	decls := parseStyle(v)
	out := decls[:0]
	replaced := false
	for _, d := range decls {
		if d.prop == prop {
			if value == "" || replaced {
				continue
			}
			d.value = value
			replaced = true
		}
		out = append(out, d)
	}
	if !replaced && value != "" {
		out = append(out, declaration{prop: prop, value: value})
	}
	if len(out) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", formatStyle(out))
}

func (e *Element) Show(display string) { e.SetStyle("display", display) }

func (e *Element) Hide() { e.SetStyle("display", "none") }

// Hidden reports an inline display:none.
func (e *Element) Hidden() bool { return e.Style("display") == "none" }
