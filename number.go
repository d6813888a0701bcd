package jsonkit

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

type numForm uint8

const (
	numInt numForm = iota
	numUint
	numBig
	numFloat
	numDecimal
)

// number keeps the form a numeric value was created with. Integral forms
// (int64, uint64, big.Int) never compare equal to floating forms (float64,
// decimal text).
type number struct {
	form numForm
	i    int64
	u    uint64
	f    float64
	big  *big.Int
	text string // decimal literal for numDecimal
}

// errNonFinite reports a NaN or infinite float at render time.
var errNonFinite = errors.New("jsonkit: NaN and infinite numbers have no JSON text")

func (n number) integral() bool { return n.form <= numBig }

func (n number) bigInt() *big.Int {
	switch n.form {
	case numInt:
		return big.NewInt(n.i)
	case numUint:
		return new(big.Int).SetUint64(n.u)
	case numBig:
		return n.big
	}
	return nil
}

func (n number) rat() (*big.Rat, bool) {
	switch n.form {
	case numFloat:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
			return nil, false
		}
		return new(big.Rat).SetFloat64(n.f), true
	case numDecimal:
		return new(big.Rat).SetString(n.text)
	}
	return new(big.Rat).SetInt(n.bigInt()), true
}

func (n number) float64() float64 {
	switch n.form {
	case numInt:
		return float64(n.i)
	case numUint:
		return float64(n.u)
	case numBig:
		f, _ := new(big.Float).SetInt(n.big).Float64()
		return f
	case numFloat:
		return n.f
	}
	f, _ := strconv.ParseFloat(n.text, 64)
	return f
}

func (n number) equal(o number) bool {
	if n.integral() != o.integral() {
		return false
	}
	if n.integral() {
		if n.form == o.form {
			switch n.form {
			case numInt:
				return n.i == o.i
			case numUint:
				return n.u == o.u
			}
		}
		return n.bigInt().Cmp(o.bigInt()) == 0
	}
	if n.form == numFloat && o.form == numFloat {
		return n.f == o.f
	}
	// A float and a decimal are equal when the float's shortest text has the
	// decimal's value.
	if n.form == numFloat || o.form == numFloat {
		f, d := n, o
		if o.form == numFloat {
			f, d = o, n
		}
		a, ok1 := shortRat(f.f)
		b, ok2 := d.rat()
		return ok1 && ok2 && a.Cmp(b) == 0
	}
	a, ok1 := n.rat()
	b, ok2 := o.rat()
	if !ok1 || !ok2 {
		return false
	}
	return a.Cmp(b) == 0
}

func (n number) appendText(dst []byte) ([]byte, error) {
	switch n.form {
	case numInt:
		return strconv.AppendInt(dst, n.i, 10), nil
	case numUint:
		return strconv.AppendUint(dst, n.u, 10), nil
	case numBig:
		return n.big.Append(dst, 10), nil
	case numDecimal:
		return append(dst, n.text...), nil
	}
	if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
		return dst, errNonFinite
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, n.f, 'g', -1, 64)
	if !strings.ContainsAny(string(dst[start:]), ".eE") {
		dst = append(dst, '.', '0')
	}
	return dst, nil
}

// parseNumber reads a numeric literal. Literals without fraction or exponent
// are integral; the rest are floating, kept as exact decimal text when
// decimals is set or when no float64 renders back to the same value.
func parseNumber(text string, decimals bool) (number, bool) {
	if !validNumberText(text) {
		return number{}, false
	}
	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return number{form: numInt, i: i}, true
		}
		if u, err := strconv.ParseUint(text, 10, 64); err == nil {
			return number{form: numUint, u: u}, true
		}
		b, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return number{}, false
		}
		return number{form: numBig, big: b}, true
	}
	if !decimals {
		if f, err := strconv.ParseFloat(text, 64); err == nil && floatHolds(f, text) {
			return number{form: numFloat, f: f}, true
		}
	}
	return number{form: numDecimal, text: text}, true
}

// floatHolds reports whether the shortest text of f has the same value as
// the literal, so rendering f gives back an equal number.
func floatHolds(f float64, text string) bool {
	short := strconv.FormatFloat(f, 'g', -1, 64)
	if short == text {
		return true
	}
	a, ok1 := new(big.Rat).SetString(short)
	b, ok2 := new(big.Rat).SetString(text)
	return ok1 && ok2 && a.Cmp(b) == 0
}

// shortRat is the value of the shortest decimal text of a float.
func shortRat(f float64) (*big.Rat, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
}

// validNumberText checks the JSON number grammar.
func validNumberText(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	if i >= len(s) {
		return false
	}
	switch {
	case s[i] == '0':
		i++
	case s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func bigFloatNumber(f *big.Float) number {
	if f.IsInf() {
		return number{form: numFloat, f: math.Inf(f.Sign())}
	}
	text := f.Text('g', -1)
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return number{form: numDecimal, text: text}
}
