package grd

import (
	"fmt"
	"sort"
)

// Descriptor keys, classes and enum values of the gradient schema.
// Keys are exactly four characters, padded with spaces.
const (
	keyGradient     = "Grad"
	keyObject       = "Objc"
	keyColors       = "Clrs"
	keyTransparency = "Trns"
	keyName         = "Nm  "
	keySmoothness   = "Intr"
	keyForm         = "GrdF"
	keyLocation     = "Lctn"
	keyMidpoint     = "Mdpn"
	keyType         = "Type"
	keyColor        = "Clr "
	keyOpacity      = "Opct"
	keyRed          = "Rd  "
	keyGreen        = "Grn "
	keyBlue         = "Bl  "
	keyHue          = "H   "
	keySaturation   = "Strt"
	keyBrightness   = "Brgh"

	classRGB              = "RGBC"
	classHSB              = "HSBC"
	classGradient         = "Grdn"
	classColorStop        = "Clrt"
	classTransparencyStop = "TrnS"

	enumStopType   = "Clry"
	stopUser       = "UsrS"
	stopForeground = "FrgC"
	stopBackground = "BckC"
	enumForm       = "GrdF"
	formCustom     = "CstS"

	unitPercent = "#Prc"
	unitAngle   = "#Ang"
)

const defaultMidpoint = 50

// flatObject is a flattened "Objc" value.
type flatObject struct {
	name   string
	class  string
	values map[string]any
}

// Build extracts a gradient from a flattened descriptor, the result of
// descriptor.Walk on one tagged record of a gradient file. The record must
// be an object whose "Grad" property holds the gradient object with its
// "Clrs" color stops and "Trns" transparency stops.
//
// Build never returns a partial gradient. Errors wrap ErrMissingKey,
// ErrBadValue or ErrUnsupportedColor.
func Build(flat map[string]any) (*Gradient, error) {
	root, err := asObject(flat, "")
	if err != nil {
		return nil, err
	}
	gradValue, ok := root.values[keyGradient]
	if !ok {
		return nil, missing(keyObject, keyGradient)
	}
	grad, err := asObject(gradValue, keyObject+"."+keyGradient)
	if err != nil {
		return nil, err
	}
	path := keyObject + "." + keyGradient + "." + keyObject

	colors, err := listValue(grad.values, keyColors, path)
	if err != nil {
		return nil, err
	}
	trns, err := listValue(grad.values, keyTransparency, path)
	if err != nil {
		return nil, err
	}

	g := &Gradient{
		Name:       grad.name,
		Smoothness: MaxLocation,
	}
	if _, ok := grad.values[keyName]; ok {
		if g.Name, err = textValue(grad.values, keyName, path); err != nil {
			return nil, err
		}
	}
	if _, ok := grad.values[keySmoothness]; ok {
		if g.Smoothness, err = numberValue(grad.values, keySmoothness, path); err != nil {
			return nil, err
		}
	}

	g.Transparency = make([]TransparencyStop, 0, len(trns))
	for i, item := range trns {
		ts, err := buildTransparencyStop(item, fmt.Sprintf("%s.%s[%d]", path, keyTransparency, i))
		if err != nil {
			return nil, err
		}
		g.Transparency = append(g.Transparency, ts)
	}
	sort.SliceStable(g.Transparency, func(i, j int) bool {
		return g.Transparency[i].Location < g.Transparency[j].Location
	})

	g.Stops = make([]Stop, 0, len(colors))
	for i, item := range colors {
		s, err := buildStop(item, fmt.Sprintf("%s.%s[%d]", path, keyColors, i))
		if err != nil {
			return nil, err
		}
		s.Opacity = OpacityAt(g.Transparency, s.Location)
		g.Stops = append(g.Stops, s)
	}
	return g, nil
}

func buildStop(item any, path string) (Stop, error) {
	obj, err := asObject(item, path)
	if err != nil {
		return Stop{}, err
	}
	path += "." + keyObject

	s := Stop{Midpoint: defaultMidpoint}
	if s.Location, err = intValue(obj.values, keyLocation, path); err != nil {
		return Stop{}, err
	}
	if _, ok := obj.values[keyMidpoint]; ok {
		if s.Midpoint, err = intValue(obj.values, keyMidpoint, path); err != nil {
			return Stop{}, err
		}
	}
	if _, ok := obj.values[keyType]; ok {
		kind, err := enumValue(obj.values, keyType, path)
		if err != nil {
			return Stop{}, err
		}
		switch kind {
		case stopForeground:
			s.Kind = StopForeground
		case stopBackground:
			s.Kind = StopBackground
		}
	}

	clr, ok := obj.values[keyColor]
	if !ok {
		switch s.Kind {
		case StopForeground:
			s.Color = RGBColor(0, 0, 0)
			return s, nil
		case StopBackground:
			s.Color = RGBColor(255, 255, 255)
			return s, nil
		}
		return Stop{}, missing(path, keyColor)
	}
	if s.Color, err = buildColor(clr, path+"."+keyColor); err != nil {
		return Stop{}, err
	}
	return s, nil
}

func buildColor(v any, path string) (StopColor, error) {
	obj, err := asObject(v, path)
	if err != nil {
		return StopColor{}, err
	}
	path += "." + keyObject

	switch obj.class {
	case classRGB:
		var c [3]float64
		for i, key := range [...]string{keyRed, keyGreen, keyBlue} {
			if c[i], err = numberValue(obj.values, key, path); err != nil {
				return StopColor{}, err
			}
		}
		return RGBColor(c[0], c[1], c[2]), nil
	case classHSB:
		var c [3]float64
		for i, key := range [...]string{keyHue, keySaturation, keyBrightness} {
			if c[i], err = numberValue(obj.values, key, path); err != nil {
				return StopColor{}, err
			}
		}
		return HSBColor(c[0], c[1], c[2]), nil
	}
	return StopColor{}, fmt.Errorf("%w %q at %s", ErrUnsupportedColor, obj.class, path)
}

func buildTransparencyStop(item any, path string) (TransparencyStop, error) {
	obj, err := asObject(item, path)
	if err != nil {
		return TransparencyStop{}, err
	}
	path += "." + keyObject

	ts := TransparencyStop{Midpoint: defaultMidpoint}
	if ts.Location, err = intValue(obj.values, keyLocation, path); err != nil {
		return TransparencyStop{}, err
	}
	if ts.Opacity, err = numberValue(obj.values, keyOpacity, path); err != nil {
		return TransparencyStop{}, err
	}
	if _, ok := obj.values[keyMidpoint]; ok {
		if ts.Midpoint, err = intValue(obj.values, keyMidpoint, path); err != nil {
			return TransparencyStop{}, err
		}
	}
	return ts, nil
}

func missing(path, key string) error {
	if path == "" {
		return fmt.Errorf("%w %q", ErrMissingKey, key)
	}
	return fmt.Errorf("%w %q in %s", ErrMissingKey, key, path)
}

func badValue(path, key string, v any) error {
	return fmt.Errorf("%w: %s.%s is %T", ErrBadValue, path, key, v)
}

// asObject unwraps {"Objc": {"name", "typename", "values"}}.
func asObject(v any, path string) (flatObject, error) {
	outer, ok := v.(map[string]any)
	if !ok {
		return flatObject{}, badValue(path, keyObject, v)
	}
	inner, ok := outer[keyObject]
	if !ok {
		return flatObject{}, missing(path, keyObject)
	}
	m, ok := inner.(map[string]any)
	if !ok {
		return flatObject{}, badValue(path, keyObject, inner)
	}
	obj := flatObject{}
	obj.name, _ = m["name"].(string)
	obj.class, _ = m["typename"].(string)
	if obj.values, ok = m["values"].(map[string]any); !ok {
		return flatObject{}, badValue(path+"."+keyObject, "values", m["values"])
	}
	return obj, nil
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// typed returns the payload of values[key] stored under one of tags.
func typed(values map[string]any, key, path string, tags ...string) (any, error) {
	v, ok := values[key]
	if !ok {
		return nil, missing(path, key)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, badValue(path, key, v)
	}
	for _, tag := range tags {
		if p, ok := m[tag]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s has none of %v", ErrBadValue, path, key, tags)
}

func numberValue(values map[string]any, key, path string) (float64, error) {
	p, err := typed(values, key, path, "doub", "long", "UntF")
	if err != nil {
		return 0, err
	}
	switch n := p.(type) {
	case float64:
		return n, nil
	case int32:
		return float64(n), nil
	case map[string]any:
		if f, ok := n["value"].(float64); ok {
			return f, nil
		}
	}
	return 0, badValue(path, key, p)
}

func intValue(values map[string]any, key, path string) (int, error) {
	p, err := typed(values, key, path, "long", "doub")
	if err != nil {
		return 0, err
	}
	switch n := p.(type) {
	case int32:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, badValue(path, key, p)
}

func textValue(values map[string]any, key, path string) (string, error) {
	p, err := typed(values, key, path, "TEXT")
	if err != nil {
		return "", err
	}
	s, ok := p.(string)
	if !ok {
		return "", badValue(path, key, p)
	}
	return s, nil
}

func enumValue(values map[string]any, key, path string) (string, error) {
	p, err := typed(values, key, path, "enum")
	if err != nil {
		return "", err
	}
	if s, ok := asMap(p)["value"].(string); ok {
		return s, nil
	}
	return "", badValue(path, key, p)
}

func listValue(values map[string]any, key, path string) ([]any, error) {
	p, err := typed(values, key, path, "VlLs")
	if err != nil {
		return nil, err
	}
	l, ok := p.([]any)
	if !ok {
		return nil, badValue(path, key, p)
	}
	return l, nil
}
