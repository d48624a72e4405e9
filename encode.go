package grd

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/grd/descriptor"
)

const (
	fileVersion       = 5
	descriptorVersion = 16
)

// Encode writes gradients as a gradient file that Reader can read back.
// A nil entry is an error.
//
// Every color stop is written with its stored color and kind; opacity is
// written as the gradient's transparency stops.
func Encode(gradients []*Gradient) ([]byte, error) {
	buf := make([]byte, 0, HeaderSize+64*len(gradients))
	buf = append(buf, Magic...)
	buf = binary.BigEndian.AppendUint16(buf, fileVersion)
	buf = binary.BigEndian.AppendUint32(buf, descriptorVersion)

	// Root descriptor: empty name, class "null", one property whose key
	// length prefix ends the header.
	var err error
	if buf, err = descriptor.Append(buf, &descriptor.Text{}); err != nil {
		return nil, err
	}
	buf = binary.BigEndian.AppendUint32(buf, 0)
	buf = append(buf, "null"...)
	buf = binary.BigEndian.AppendUint32(buf, 1)
	buf = binary.BigEndian.AppendUint32(buf, 0)
	if len(buf) != HeaderSize {
		return nil, fmt.Errorf("grd: header is %d bytes, want %d", len(buf), HeaderSize)
	}

	list := &descriptor.List{Items: make([]*descriptor.Discriminated, 0, len(gradients))}
	for i, g := range gradients {
		if g == nil {
			return nil, fmt.Errorf("grd: gradient %d is nil", i)
		}
		list.Items = append(list.Items, gradientRecord(g))
	}
	outer := &descriptor.KeyValue{
		Key:   listKey,
		Value: tagged(descriptor.TagList, list),
	}
	if buf, err = descriptor.Append(buf, outer); err != nil {
		return nil, fmt.Errorf("grd: encode: %w", err)
	}
	return buf, nil
}

// gradientRecord builds the descriptor tree Build reads.
func gradientRecord(g *Gradient) *descriptor.Discriminated {
	colors := &descriptor.List{}
	for _, s := range g.Stops {
		colors.Items = append(colors.Items, object("", classColorStop,
			prop(keyColor, colorRecord(s.Color)),
			prop(keyType, tagged(descriptor.TagEnum, &descriptor.Enum{Type: enumStopType, Value: s.Kind.String()})),
			prop(keyLocation, tagged(descriptor.TagInt32, &descriptor.Int32{Value: int32(s.Location)})), //nolint:gosec // 0..4096
			prop(keyMidpoint, tagged(descriptor.TagInt32, &descriptor.Int32{Value: int32(s.Midpoint)})), //nolint:gosec // 0..100
		))
	}

	trns := &descriptor.List{}
	for _, ts := range g.Transparency {
		trns.Items = append(trns.Items, object("", classTransparencyStop,
			prop(keyOpacity, tagged(descriptor.TagUnitFloat, &descriptor.UnitFloat{Unit: unitPercent, Value: ts.Opacity})),
			prop(keyLocation, tagged(descriptor.TagInt32, &descriptor.Int32{Value: int32(ts.Location)})), //nolint:gosec // 0..4096
			prop(keyMidpoint, tagged(descriptor.TagInt32, &descriptor.Int32{Value: int32(ts.Midpoint)})), //nolint:gosec // 0..100
		))
	}

	grad := object("Gradient", classGradient,
		prop(keyName, tagged(descriptor.TagText, &descriptor.Text{Value: g.Name})),
		prop(keyForm, tagged(descriptor.TagEnum, &descriptor.Enum{Type: enumForm, Value: formCustom})),
		prop(keySmoothness, tagged(descriptor.TagFloat64, &descriptor.Float64{Value: g.Smoothness})),
		prop(keyColors, tagged(descriptor.TagList, colors)),
		prop(keyTransparency, tagged(descriptor.TagList, trns)),
	)
	return object("", "null", prop(keyGradient, grad))
}

func colorRecord(c StopColor) *descriptor.Discriminated {
	if c.Model == ModelHSB {
		return object("", classHSB,
			prop(keyHue, tagged(descriptor.TagUnitFloat, &descriptor.UnitFloat{Unit: unitAngle, Value: c.H})),
			prop(keySaturation, tagged(descriptor.TagFloat64, &descriptor.Float64{Value: c.S})),
			prop(keyBrightness, tagged(descriptor.TagFloat64, &descriptor.Float64{Value: c.V})),
		)
	}
	return object("", classRGB,
		prop(keyRed, tagged(descriptor.TagFloat64, &descriptor.Float64{Value: c.R})),
		prop(keyGreen, tagged(descriptor.TagFloat64, &descriptor.Float64{Value: c.G})),
		prop(keyBlue, tagged(descriptor.TagFloat64, &descriptor.Float64{Value: c.B})),
	)
}

func tagged(tag string, v descriptor.Record) *descriptor.Discriminated {
	return &descriptor.Discriminated{Tag: tag, Value: v}
}

func prop(key string, v *descriptor.Discriminated) *descriptor.KeyValue {
	return &descriptor.KeyValue{Key: key, Value: v}
}

func object(name, class string, children ...*descriptor.KeyValue) *descriptor.Discriminated {
	return tagged(descriptor.TagObject, &descriptor.Object{Name: name, Class: class, Children: children})
}
