package benchmarks_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	xmlskema "github.com/reoring/xmlskema"
	"github.com/reoring/xmlskema/cielo"
	"github.com/reoring/xmlskema/codec"
	"github.com/reoring/xmlskema/dsl"
	"github.com/reoring/xmlskema/rules"
	"github.com/reoring/xmlskema/xmldoc"
)

// ---- Helpers ----

func transactionRequest() *xmlskema.Object {
	return xmlskema.NewObject().
		Set("id", "af32f93c-5e9c-4f44-9478-ccc5aca9319e").
		Set("version", cielo.ServiceVersion).
		Set("establishment", cielo.Establishment{Number: "1006993069", Key: "25fbb99741c739dd"}.Object()).
		Set("holder", cielo.Card{Number: "4012001037141112", ExpirationDate: time.Date(2030, 12, 1, 0, 0, 0, 0, time.UTC), SecurityCode: "123"}.Object()).
		Set("order", cielo.Order{Number: "178148599", Value: decimal.RequireFromString("200.21"), Currency: cielo.DefaultCurrency, DateTime: time.Date(2011, 12, 7, 11, 43, 37, 0, time.UTC), Description: "[origem:10.50.54.156]"}.Object()).
		Set("payment", cielo.Payment{Brand: cielo.Visa, Product: cielo.CreditInFull, Installments: 1}.Object()).
		Set("return_url", "http://example.com").
		Set("authorize", 3).
		Set("capture", true)
}

// wideSchema returns a flat mapping with n string fields built through the dsl.
func wideSchema(tb testing.TB, n int) *xmlskema.Node {
	tb.Helper()
	b := dsl.Object("wide")
	for i := 0; i < n; i++ {
		b.Field(fmt.Sprintf("f%d", i), codec.String()).Validate(rules.MaxLength(32))
	}
	node, err := b.Build()
	if err != nil {
		tb.Fatalf("schema build failed: %v", err)
	}
	return node
}

func wideDocument(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString("<wide>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&buf, "<f%d>value %d</f%d>", i, i, i)
	}
	buf.WriteString("</wide>")
	return buf.Bytes()
}

// ---- Benchmarks ----

func BenchmarkEncode_TransactionRequest(b *testing.B) {
	ctx := context.Background()
	n := cielo.TransactionRequest()
	obj := transactionRequest()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := xmldoc.Encode(ctx, n, obj); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode_TransactionResponse(b *testing.B) {
	ctx := context.Background()
	reg, err := cielo.Responses()
	if err != nil {
		b.Fatal(err)
	}
	req := transactionRequest()
	doc, err := xmldoc.Encode(ctx, cielo.Transaction(), xmlskema.NewObject().
		Set("id", req.String("id")).
		Set("version", cielo.ServiceVersion).
		Set("tid", "10069930690A16A61001").
		Set("order", req.Object("order")).
		Set("payment", req.Object("payment")).
		Set("status", int64(cielo.StatusCaptured)).
		Set("pan", "uv9yI5tkhX9jpuCt+dfrtoSVM4U3gIjvrcwMBfZcadE="))
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(doc)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reg.DecodeBytes(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode_Wide(b *testing.B) {
	ctx := context.Background()
	for _, n := range []int{8, 64, 512} {
		b.Run(fmt.Sprintf("fields=%d", n), func(b *testing.B) {
			node := wideSchema(b, n)
			doc := wideDocument(n)
			b.SetBytes(int64(len(doc)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := xmldoc.Decode(ctx, node, doc); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecode_FailFastVsCollect(b *testing.B) {
	node := wideSchema(b, 64)
	doc := []byte("<wide/>")
	for _, ff := range []bool{false, true} {
		b.Run(fmt.Sprintf("failfast=%v", ff), func(b *testing.B) {
			ctx := xmlskema.WithFailFast(context.Background(), ff)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := xmldoc.Decode(ctx, node, doc); err == nil {
					b.Fatal("expected issues")
				}
			}
		})
	}
}
