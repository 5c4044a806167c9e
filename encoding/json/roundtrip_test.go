package json_test

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	smithy "github.com/smithy-lang/schema-runtime"
	"github.com/smithy-lang/schema-runtime/encoding/json"
	smithytesting "github.com/smithy-lang/schema-runtime/testing"
	"github.com/smithy-lang/schema-runtime/traits"
)

var widgetSchema = smithy.NewBuilder(smithy.ShapeID{Namespace: "example", Name: "Widget"}, smithy.ShapeTypeStructure).
	PutMember("name", smithy.PreludeString).
	PutMember("count", smithy.PreludeInteger).
	PutMember("ratio", smithy.PreludeDouble).
	PutMember("active", smithy.PreludeBoolean).
	PutMember("payload", smithy.PreludeBlob).
	PutMember("createdAt", smithy.PreludeTimestamp, &traits.TimestampFormat{Format: "date-time"}).
	PutMember("serial", smithy.PreludeBigInteger).
	PutMember("price", smithy.PreludeBigDecimal).
	PutMember("tags", tagListSchema).
	PutMember("attrs", attrMapSchema).
	MustBuild()

var tagListSchema = smithy.NewBuilder(smithy.ShapeID{Namespace: "example", Name: "TagList"}, smithy.ShapeTypeList).
	PutMember("member", smithy.PreludeString).
	MustBuild()

var attrMapSchema = smithy.NewBuilder(smithy.ShapeID{Namespace: "example", Name: "AttrMap"}, smithy.ShapeTypeMap).
	PutMember("key", smithy.PreludeString).
	PutMember("value", smithy.PreludeInteger).
	MustBuild()

type widget struct {
	Name      string
	Count     int32
	Ratio     float64
	Active    bool
	Payload   []byte
	CreatedAt time.Time
	Serial    big.Int
	Price     big.Float
	Tags      []string
	Attrs     map[string]int32
}

func (w *widget) Serialize(s smithy.ShapeSerializer) {
	s.WriteStruct(widgetSchema, (*serializeWidget)(w))
}

type serializeWidget widget

func (w *serializeWidget) Serialize(s smithy.ShapeSerializer) {
	m := widgetSchema.Members
	s.WriteString(m["name"], w.Name)
	s.WriteInt32(m["count"], w.Count)
	s.WriteFloat64(m["ratio"], w.Ratio)
	s.WriteBool(m["active"], w.Active)
	s.WriteBlob(m["payload"], w.Payload)
	s.WriteTime(m["createdAt"], w.CreatedAt)
	s.WriteBigInteger(m["serial"], w.Serial)
	s.WriteBigDecimal(m["price"], w.Price)

	smithy.WriteList(s, m["tags"], w.Tags, func(s smithy.ShapeSerializer, member *smithy.Schema, v string) {
		s.WriteString(member, v)
	})

	s.WriteMap(m["attrs"])
	key := m["attrs"].MapKeyMember()
	value := m["attrs"].MapValueMember()
	for k, v := range w.Attrs {
		s.WriteKey(key, k)
		s.WriteInt32(value, v)
	}
	s.CloseMap()
}

func (w *widget) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, widgetSchema, func(m *smithy.Schema) error {
		switch m.ID.Member {
		case "name":
			return d.ReadString(m, &w.Name)
		case "count":
			return d.ReadInt32(m, &w.Count)
		case "ratio":
			return d.ReadFloat64(m, &w.Ratio)
		case "active":
			return d.ReadBool(m, &w.Active)
		case "payload":
			return d.ReadBlob(m, &w.Payload)
		case "createdAt":
			return d.ReadTime(m, &w.CreatedAt)
		case "serial":
			return d.ReadBigInteger(m, &w.Serial)
		case "price":
			return d.ReadBigDecimal(m, &w.Price)
		case "tags":
			return smithy.ReadList(d, m, func() error {
				var v string
				if err := d.ReadString(m.ListMember(), &v); err != nil {
					return err
				}
				w.Tags = append(w.Tags, v)
				return nil
			})
		case "attrs":
			if w.Attrs == nil {
				w.Attrs = map[string]int32{}
			}
			return smithy.ReadMap(d, m, func(key string) error {
				var v int32
				if err := d.ReadInt32(m.MapValueMember(), &v); err != nil {
					return err
				}
				w.Attrs[key] = v
				return nil
			})
		}
		return nil
	})
}

func TestShapeRoundTrip(t *testing.T) {
	in := &widget{
		Name:      "sprocket",
		Count:     7,
		Ratio:     3.5,
		Active:    true,
		Payload:   []byte("hello"),
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Serial:    *big.NewInt(9223372036854775807),
		Price:     *big.NewFloat(19.99),
		Tags:      []string{"a", "b"},
		Attrs:     map[string]int32{"x": 1},
	}

	codec := json.NewCodec(func(s *json.Settings) {
		s.UseTimestampFormat = true
	})

	ser := codec.Serializer()
	in.Serialize(ser)
	wire := ser.Bytes()

	var out widget
	if err := out.Deserialize(codec.Deserializer(wire)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if diff := cmp.Diff(in.Name, out.Name); diff != "" {
		t.Errorf("Name mismatch (-want +got):\n%s", diff)
	}
	if in.Count != out.Count {
		t.Errorf("Count = %d, want %d", out.Count, in.Count)
	}
	if in.Ratio != out.Ratio {
		t.Errorf("Ratio = %v, want %v", out.Ratio, in.Ratio)
	}
	if in.Active != out.Active {
		t.Errorf("Active = %v, want %v", out.Active, in.Active)
	}
	if string(in.Payload) != string(out.Payload) {
		t.Errorf("Payload = %q, want %q", out.Payload, in.Payload)
	}
	if !in.CreatedAt.Equal(out.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", out.CreatedAt, in.CreatedAt)
	}
	if in.Serial.Cmp(&out.Serial) != 0 {
		t.Errorf("Serial = %v, want %v", &out.Serial, &in.Serial)
	}
	if in.Price.Cmp(&out.Price) != 0 {
		t.Errorf("Price = %v, want %v", &out.Price, &in.Price)
	}
	if diff := cmp.Diff(in.Tags, out.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(in.Attrs, out.Attrs); diff != "" {
		t.Errorf("Attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestShapeRoundTripJSONEqual(t *testing.T) {
	in := &widget{Name: "gizmo", Count: 1, CreatedAt: time.Unix(1700000000, 0).UTC()}

	codec := json.NewCodec()
	ser := codec.Serializer()
	in.Serialize(ser)
	wire := ser.Bytes()

	expect := []byte(`{"name":"gizmo","count":1,"ratio":0,"active":false,"payload":null,"createdAt":1700000000,"serial":0,"price":0,"tags":[],"attrs":{}}`)
	if err := smithytesting.JSONEqual(expect, wire); err != nil {
		t.Fatalf("expect JSON to be equal, %v", err)
	}
}

func TestDocumentTimestampRoundTrip(t *testing.T) {
	in := smithy.NewTimestamp(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	codec := json.NewCodec()
	ser := codec.Serializer()
	ser.WriteDocument(nil, in)
	wire := ser.Bytes()

	var out smithy.Document
	if err := codec.Deserializer(wire).ReadDocument(nil, &out); err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if !smithy.Equal(in, out) {
		t.Errorf("Equal(in, out) = false, in=%v out=%v", in, out)
	}
	if out.Type() != smithy.ShapeTypeTimestamp {
		t.Errorf("Type() = %v, want timestamp", out.Type())
	}
}

func TestFloatSpecials(t *testing.T) {
	nan := func() float64 { var z float64; return z / z }()

	cases := map[string]float64{
		"nan":  nan,
		"+inf": math.Inf(1),
		"-inf": math.Inf(-1),
	}

	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			in := &widget{Ratio: v}
			codec := json.NewCodec()
			ser := codec.Serializer()
			in.Serialize(ser)
			wire := ser.Bytes()

			var out widget
			if err := out.Deserialize(codec.Deserializer(wire)); err != nil {
				t.Fatalf("Deserialize: %v", err)
			}

			if math.IsNaN(v) {
				if !math.IsNaN(out.Ratio) {
					t.Errorf("Ratio = %v, want NaN", out.Ratio)
				}
				return
			}
			if out.Ratio != v {
				t.Errorf("Ratio = %v, want %v", out.Ratio, v)
			}
		})
	}
}

func TestListWithNulls(t *testing.T) {
	sparseList := smithy.NewBuilder(smithy.ShapeID{Namespace: "example", Name: "SparseTagList"}, smithy.ShapeTypeList).
		PutMember("member", smithy.PreludeString).
		MustBuild()

	codec := json.NewCodec()
	ser := codec.Serializer()
	ser.WriteList(sparseList)
	member := sparseList.ListMember()
	ser.WriteString(member, "a")
	ser.WriteNil(member)
	ser.WriteString(member, "b")
	ser.CloseList()
	wire := ser.Bytes()

	d := codec.Deserializer(wire)
	var got []*string
	if err := smithy.ReadList(d, sparseList, func() error {
		if d.IsNull(member) {
			got = append(got, nil)
			return d.ReadNull(member)
		}
		var v string
		if err := d.ReadString(member, &v); err != nil {
			return err
		}
		got = append(got, &v)
		return nil
	}); err != nil {
		t.Fatalf("ReadList: %v", err)
	}

	if len(got) != 3 || got[1] != nil || *got[0] != "a" || *got[2] != "b" {
		t.Fatalf("unexpected list contents: %v", derefAll(got))
	}
}

func derefAll(ps []*string) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		if p == nil {
			out[i] = "<nil>"
			continue
		}
		out[i] = *p
	}
	return out
}
