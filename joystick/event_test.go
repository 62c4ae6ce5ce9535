package joystick_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/airstick/airstick/joystick"
)

func TestEventUnmarshal(t *testing.T) {
	cases := []struct {
		name    string
		data    []byte
		want    joystick.Event
		wantErr error
	}{
		{
			name: "axis half deflection",
			data: []byte{0xe8, 0x03, 0x00, 0x00, 0x00, 0x40, 0x02, 0x00},
			want: joystick.Event{Time: 1000, Value: 16384, Type: 0x02, Number: 0},
		},
		{
			name: "axis full negative",
			data: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x80, 0x02, 0x01},
			want: joystick.Event{Time: 0, Value: -32768, Type: 0x02, Number: 1},
		},
		{
			name: "button press",
			data: []byte{0x2a, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x03},
			want: joystick.Event{Time: 42, Value: 1, Type: 0x01, Number: 3},
		},
		{
			name: "init replay button",
			data: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x81, 0x07},
			want: joystick.Event{Time: 0, Value: 0, Type: 0x81, Number: 7},
		},
		{
			name: "large timestamp",
			data: []byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x02, 0x00},
			want: joystick.Event{Time: 0xffffffff, Value: 0, Type: 0x02, Number: 0},
		},
		{
			name:    "short buffer",
			data:    []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:    "empty buffer",
			data:    nil,
			wantErr: io.ErrUnexpectedEOF,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ev joystick.Event
			err := ev.UnmarshalBinary(tc.data)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, tc.want, ev)
		})
	}
}

func TestEventClassify(t *testing.T) {
	cases := []struct {
		name     string
		typ      uint8
		isAxis   bool
		isButton bool
		isInit   bool
	}{
		{name: "button", typ: 0x01, isButton: true},
		{name: "axis", typ: 0x02, isAxis: true},
		{name: "init axis", typ: 0x82, isAxis: true, isInit: true},
		{name: "init button", typ: 0x81, isButton: true, isInit: true},
		{name: "bare init bit", typ: 0x80, isInit: true},
		{name: "unknown", typ: 0x00},
		{name: "both kind bits", typ: 0x03, isAxis: true, isButton: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := joystick.Event{Type: tc.typ}
			assert.Equal(t, tc.isAxis, ev.IsAxis())
			assert.Equal(t, tc.isButton, ev.IsButton())
			assert.Equal(t, tc.isInit, ev.IsInit())
		})
	}
}

func TestEventAxisValue(t *testing.T) {
	cases := []struct {
		name  string
		value int16
		want  float64
	}{
		{name: "center", value: 0, want: 0},
		{name: "half positive", value: 16384, want: 0.5},
		{name: "full negative", value: -32768, want: -1.0},
		{name: "max positive", value: 32767, want: 32767.0 / 32768.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := joystick.Event{Value: tc.value, Type: joystick.EventAxis}
			assert.Equal(t, tc.want, ev.AxisValue())
		})
	}
}
