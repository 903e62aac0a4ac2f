package query

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Key identifies a cached query: an ordered tuple of primitive values.
// Elements compare by type and value, so Key{1} and Key{"1"} differ.
type Key []any

func NewKey(parts ...any) Key {
	return Key(parts)
}

// With returns a copy of k extended by parts.
func (k Key) With(parts ...any) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

func (k Key) String() string {
	return strings.Join(k.encode(), ",")
}

// HasPrefix reports whether the first len(prefix) elements of k equal prefix.
func (k Key) HasPrefix(prefix Key) bool {
	return hasPrefix(k.encode(), prefix.encode())
}

func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

func (k Key) encode() []string {
	out := make([]string, len(k))
	for i, p := range k {
		out[i] = encodePart(p)
	}
	return out
}

func hasPrefix(parts, prefix []string) bool {
	if len(prefix) > len(parts) {
		return false
	}
	for i := range prefix {
		if parts[i] != prefix[i] {
			return false
		}
	}
	return true
}

// encodePart maps a key element to a canonical string tagged with its kind.
// All integer widths share one tag so Key{1} equals Key{int64(1)}.
func encodePart(p any) string {
	if p == nil {
		return "n"
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.String:
		return "s" + strconv.Quote(v.String())
	case reflect.Bool:
		return "b" + strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "i" + strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u <= math.MaxInt64 {
			return "i" + strconv.FormatUint(u, 10)
		}
		return "u" + strconv.FormatUint(u, 10)
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return "i" + strconv.FormatInt(int64(f), 10)
		}
		return "f" + strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return "x" + strconv.Quote(fmt.Sprintf("%T:%v", p, p))
	}
}
