package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTransactionViewJSONKeepsViewFields(t *testing.T) {
	fiat := 50.0
	in := TransactionView{
		Transaction: Transaction{
			ID:           "tx7",
			Direction:    DirectionReceive,
			Amount:       0.001,
			Counterparty: "bc1abc...xyz",
			Timestamp:    time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		FiatUSD:     &fiat,
		FiatDisplay: "$50.00",
		Label:       "Received BTC",
		AmountLabel: "+0.0010 BTC",
		When:        "2 hours ago",
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out TransactionView
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, want := out.Transaction, in.Transaction
	if got.ID != want.ID || got.Direction != want.Direction || got.Amount != want.Amount ||
		got.Counterparty != want.Counterparty || !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("transaction changed: %+v", got)
	}
	if out.FiatUSD == nil || *out.FiatUSD != fiat {
		t.Fatalf("fiatUsd lost: %v", out.FiatUSD)
	}
	if out.FiatDisplay != in.FiatDisplay || out.Label != in.Label || out.AmountLabel != in.AmountLabel || out.When != in.When {
		t.Fatalf("view fields lost: %+v", out)
	}
}

func TestTransactionViewWithoutPriceOmitsFiat(t *testing.T) {
	data, err := json.Marshal(TransactionView{Transaction: Transaction{ID: "tx1"}, FiatDisplay: "~"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["fiatUsd"]; ok {
		t.Fatalf("fiatUsd should be omitted: %s", data)
	}

	var out TransactionView
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal view: %v", err)
	}
	if out.FiatUSD != nil || out.FiatDisplay != "~" {
		t.Fatalf("unexpected view: %+v", out)
	}
}
