package xmlskema_test

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	xmlskema "github.com/reoring/xmlskema"
)

func TestObject_OrderAndAccessors(t *testing.T) {
	when := time.Date(2012, 8, 11, 0, 0, 0, 0, time.UTC)
	o := xmlskema.NewObject().
		Set("z", "last").
		Set("n", int64(7)).
		Set("d", decimal.RequireFromString("1.50")).
		Set("t", when).
		Set("b", true).
		Set("child", xmlskema.NewObject().Set("k", "v"))
	o.Set("z", "still first")

	keys := o.Keys()
	if keys[0] != "z" || keys[len(keys)-1] != "child" {
		t.Fatalf("unexpected key order: %v", keys)
	}
	if o.String("z") != "still first" || o.Int("n") != 7 || !o.Bool("b") {
		t.Fatalf("unexpected accessors: %v", o.Map())
	}
	if !o.Decimal("d").Equal(decimal.NewFromFloat(1.5)) || !o.Time("t").Equal(when) {
		t.Fatalf("unexpected typed values")
	}
	if o.Object("child").String("k") != "v" {
		t.Fatalf("nested object not returned")
	}
	if o.String("n") != "" || o.Object("z") != nil {
		t.Fatalf("mismatched accessors must return zero values")
	}

	o.Delete("n")
	if o.Has("n") || o.Len() != 5 {
		t.Fatalf("delete failed: %v", o.Keys())
	}
}

func TestObject_MarshalJSONKeepsOrder(t *testing.T) {
	o := xmlskema.NewObject().Set("b", "2").Set("a", int64(1)).Set("c", xmlskema.NewObject().Set("y", true).Set("x", nil))
	got, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `{"b":"2","a":1,"c":{"y":true,"x":null}}` {
		t.Fatalf("unexpected JSON: %s", got)
	}
	var nilObj *xmlskema.Object
	if b, _ := nilObj.MarshalJSON(); string(b) != "null" {
		t.Fatalf("nil object must marshal as null, got %s", b)
	}
}
