package salvage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Coerce copies raw into dst, a pointer to a struct, converting values whose
// JSON type does not match the field. It returns a diagnostic for every
// conversion and for every value it had to drop. Unknown keys are ignored.
func Coerce(raw map[string]any, dst any) []string {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return []string{"salvage: coerce destination must be a pointer to a struct"}
	}
	c := &coercer{}
	c.structInto(raw, rv.Elem(), "")
	return c.diags
}

type coercer struct {
	diags []string
}

func (c *coercer) notef(format string, args ...any) {
	c.diags = append(c.diags, fmt.Sprintf(format, args...))
}

// structInto fills the struct sv from obj, keyed by JSON field name.
func (c *coercer) structInto(obj map[string]any, sv reflect.Value, path string) {
	fields := jsonFields(sv.Type())
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		idx, ok := fields[key]
		if !ok {
			continue
		}
		fp := join(path, key)
		v, ok := c.value(obj[key], sv.Type().Field(idx).Type, fp)
		if !ok {
			c.notef("skipped field %s: cannot use %s as %s", fp, jsonKind(obj[key]), sv.Type().Field(idx).Type)
			continue
		}
		sv.Field(idx).Set(v)
	}
}

var unmarshalerType = reflect.TypeFor[json.Unmarshaler]()

// unmarshal hands v to the type's own UnmarshalJSON.
func (c *coercer) unmarshal(v any, t reflect.Type) (reflect.Value, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return reflect.Value{}, false
	}
	p := reflect.New(t)
	if err := p.Interface().(json.Unmarshaler).UnmarshalJSON(b); err != nil {
		return reflect.Value{}, false
	}
	return p.Elem(), true
}

// value converts v to type t. The second return is false when no
// reasonable conversion exists.
func (c *coercer) value(v any, t reflect.Type, path string) (reflect.Value, bool) {
	if v == nil {
		return reflect.Zero(t), true
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(unmarshalerType) {
		return c.unmarshal(v, t)
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner, ok := c.value(v, t.Elem(), path)
		if !ok {
			return reflect.Value{}, false
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, true

	case reflect.Interface:
		if reflect.TypeOf(v).AssignableTo(t) {
			return reflect.ValueOf(v), true
		}
		return reflect.Value{}, false

	case reflect.String:
		s, ok := c.text(v, path)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(s).Convert(t), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := c.integer(v, path)
		if !ok {
			return reflect.Value{}, false
		}
		out := reflect.New(t).Elem()
		out.SetInt(n)
		return out, true

	case reflect.Float32, reflect.Float64:
		f, ok := c.float(v, path)
		if !ok {
			return reflect.Value{}, false
		}
		out := reflect.New(t).Elem()
		out.SetFloat(f)
		return out, true

	case reflect.Bool:
		b, ok := c.boolean(v, path)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(b).Convert(t), true

	case reflect.Slice:
		return c.slice(v, t, path)

	case reflect.Map:
		return c.mapping(v, t, path)

	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return reflect.Value{}, false
		}
		out := reflect.New(t).Elem()
		c.structInto(obj, out, path)
		return out, true
	}
	return reflect.Value{}, false
}

func (c *coercer) text(v any, path string) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		c.notef("%s: converted number to text", path)
		return x.String(), true
	case float64:
		c.notef("%s: converted number to text", path)
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		c.notef("%s: converted boolean to text", path)
		return strconv.FormatBool(x), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, el := range x {
			switch el.(type) {
			case nil:
				continue
			case map[string]any, []any:
				return "", false
			}
			s, _ := (&coercer{}).text(el, path)
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		switch len(parts) {
		case 0:
			c.notef("%s: empty list left field absent", path)
		case 1:
			c.notef("%s: unwrapped single-element list", path)
		default:
			c.notef("%s: joined %d list elements", path, len(parts))
		}
		return strings.Join(parts, "; "), true
	}
	return "", false
}

func (c *coercer) integer(v any, path string) (int64, bool) {
	var lit string
	fromText := false
	switch x := v.(type) {
	case json.Number:
		lit = x.String()
	case float64:
		if x != float64(int64(x)) {
			c.notef("%s: truncated %v to an integer", path, x)
		}
		return int64(x), true
	case string:
		lit = strings.TrimSpace(x)
		fromText = true
	default:
		return 0, false
	}
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		if fromText {
			c.notef("%s: parsed integer from text", path)
		}
		return n, true
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, false
	}
	c.notef("%s: truncated %s to an integer", path, lit)
	return int64(f), true
}

func (c *coercer) float(v any, path string) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		c.notef("%s: parsed number from text", path)
		return f, true
	}
	return 0, false
}

func (c *coercer) boolean(v any, path string) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes":
			c.notef("%s: parsed boolean from text", path)
			return true, true
		case "false", "no":
			c.notef("%s: parsed boolean from text", path)
			return false, true
		}
	}
	return false, false
}

func (c *coercer) slice(v any, t reflect.Type, path string) (reflect.Value, bool) {
	items, ok := v.([]any)
	if !ok {
		el, ok := c.value(v, t.Elem(), path+"[0]")
		if !ok {
			return reflect.Value{}, false
		}
		c.notef("%s: wrapped single value in a list", path)
		out := reflect.MakeSlice(t, 0, 1)
		return reflect.Append(out, el), true
	}

	out := reflect.MakeSlice(t, 0, len(items))
	for i, item := range items {
		ip := fmt.Sprintf("%s[%d]", path, i)
		el, ok := c.value(item, t.Elem(), ip)
		if !ok {
			c.notef("dropped %s: cannot use %s as %s", ip, jsonKind(item), t.Elem())
			continue
		}
		out = reflect.Append(out, el)
	}
	return out, true
}

func (c *coercer) mapping(v any, t reflect.Type, path string) (reflect.Value, bool) {
	obj, ok := v.(map[string]any)
	if !ok || t.Key().Kind() != reflect.String {
		return reflect.Value{}, false
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := reflect.MakeMapWithSize(t, len(obj))
	for _, k := range keys {
		kp := join(path, k)
		el, ok := c.value(obj[k], t.Elem(), kp)
		if !ok {
			c.notef("dropped %s: cannot use %s as %s", kp, jsonKind(obj[k]), t.Elem())
			continue
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), el)
	}
	return out, true
}

// jsonFields maps JSON names to exported field indexes of t.
func jsonFields(t reflect.Type) map[string]int {
	out := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		out[name] = i
	}
	return out
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
