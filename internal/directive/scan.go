package directive

import "regexp"

// pattern matches $command(argument). The argument runs up to the first ')'
// and may not be empty; Go's \w is ASCII-only, i.e. [0-9A-Za-z_].
var pattern = regexp.MustCompile(`\$(\w+)\(([^)]+)\)`)

// Directive is a single marker found in a text payload.
type Directive struct {
	Command  string
	Argument string
	// Start and End are the byte offsets of the whole marker, sigil through
	// closing paren.
	Start int
	End   int
}

// String renders the directive back into its marker form.
func (d Directive) String() string {
	return "$" + d.Command + "(" + d.Argument + ")"
}

// Scan returns every directive in text, left to right, without overlap.
func Scan(text string) []Directive {
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	directives := make([]Directive, 0, len(matches))
	for _, m := range matches {
		directives = append(directives, Directive{
			Command:  text[m[2]:m[3]],
			Argument: text[m[4]:m[5]],
			Start:    m[0],
			End:      m[1],
		})
	}
	return directives
}
