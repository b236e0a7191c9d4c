package pill

import (
	"regexp"
	"strings"

	"github.com/Munckenh/obsidian-relative-dates/internal/model"
)

// Var is one CSS custom property exposed to the rendering surface.
type Var struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

const TextVar = "--date-pill-text"

// VarName is the custom property carrying the color of b.
func VarName(b model.Bucket) string {
	return "--" + BucketClass(b)
}

// Vars lists the five bucket colors in timeline order, then the text color.
// Values that could break out of a declaration fall back to the defaults.
func Vars(s model.Settings) []Var {
	defaults := model.DefaultSettings()
	out := make([]Var, 0, len(model.Buckets())+1)
	for _, b := range model.Buckets() {
		out = append(out, Var{
			Name:  VarName(b),
			Value: cssValue(s.PillColors.For(b), defaults.PillColors.For(b)),
		})
	}
	out = append(out, Var{Name: TextVar, Value: cssValue(s.PillTextColor, defaults.PillTextColor)})
	return out
}

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether v can be used as a pill color: any CSS color
// value ("#d1453b", "rebeccapurple", "rgb(0 128 0)") that cannot break out of
// a declaration. Values starting with "#" must be #rgb or #rrggbb.
func ValidColor(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, ";{}<>\\\"'\n\r") {
		return false
	}
	if strings.HasPrefix(v, "#") {
		return hexColorRe.MatchString(v)
	}
	return true
}

func cssValue(v, fallback string) string {
	if !ValidColor(v) {
		return fallback
	}
	return strings.TrimSpace(v)
}

// Stylesheet renders the variables on :root plus the pill rules that consume them.
func Stylesheet(s model.Settings) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range Vars(s) {
		b.WriteString("  " + v.Name + ": " + v.Value + ";\n")
	}
	b.WriteString("}\n\n")
	b.WriteString("." + BaseClass + " {\n" +
		"  display: inline-block;\n" +
		"  padding: 0 0.5em;\n" +
		"  border-radius: 1em;\n" +
		"  font-size: 0.85em;\n" +
		"  line-height: 1.5;\n" +
		"  color: var(" + TextVar + ");\n" +
		"}\n")
	for _, bucket := range model.Buckets() {
		b.WriteString("." + BucketClass(bucket) + " { background-color: var(" + VarName(bucket) + "); }\n")
	}
	b.WriteString("." + BaseClass + "." + StruckClass + " {\n" +
		"  text-decoration: line-through;\n" +
		"  opacity: 0.6;\n" +
		"}\n")
	return b.String()
}
