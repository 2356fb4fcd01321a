package parser

import "github.com/shapestone/scene-filter/pkg/scene"

// Classify determines the kind of a plain scalar from its spelling. The
// dialect only ever writes `true`/`false` booleans and the empty null, but
// `~` and `null` are accepted on input for robustness.
//
//	null  = "" | "~" | "null"
//	bool  = "true" | "false"
//	int   = ["-" | "+"] digit+
//	float = ["-" | "+"] (digit+ "." digit* | "." digit+) [exponent]
//	      | ["-" | "+"] digit+ exponent
//	      | [".inf" | "-.inf" | ".nan" forms]
func Classify(raw string) scene.ScalarKind {
	switch raw {
	case "", "~", "null":
		return scene.KindNull
	case "true", "false":
		return scene.KindBool
	}
	if isInt(raw) {
		return scene.KindInt
	}
	if isFloat(raw) {
		return scene.KindFloat
	}
	return scene.KindString
}

func isInt(s string) bool {
	s = stripSign(s)
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isFloat(s string) bool {
	body := stripSign(s)
	switch body {
	case ".inf", ".Inf", ".nan", ".NaN":
		return true
	}
	mantissa := body
	if i := indexAny(body, "eE"); i >= 0 {
		mantissa = body[:i]
		if !isInt(body[i+1:]) {
			return false
		}
	}
	dot := -1
	for i := 0; i < len(mantissa); i++ {
		c := mantissa[i]
		if c == '.' {
			if dot >= 0 {
				return false
			}
			dot = i
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	// require a dot or an exponent, and at least one digit somewhere
	if dot < 0 && len(mantissa) == len(body) {
		return false
	}
	return len(mantissa) > btoi(dot >= 0)
}

func stripSign(s string) string {
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		return s[1:]
	}
	return s
}

func indexAny(s, chars string) int {
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(chars); j++ {
			if s[i] == chars[j] {
				return i
			}
		}
	}
	return -1
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
