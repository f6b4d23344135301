package model

import (
	"encoding/json"
	"testing"
)

func TestSwapEventDataJSONStringAmounts(t *testing.T) {
	payload := SwapEventData{
		Trader:    "0x1111111111111111111111111111111111111111",
		Direction: "x",
		AmountIn:  "12345678901234567890",
		AmountOut: "98765432109876543210",
		FeeBps:    30,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if _, ok := decoded["amount_in"].(string); !ok {
		t.Fatalf("amount_in should be string")
	}
	if _, ok := decoded["amount_out"].(string); !ok {
		t.Fatalf("amount_out should be string")
	}
}

func TestEventRecordKeepsPayloadRaw(t *testing.T) {
	event := Event{
		Seq:       7,
		EventName: EventMint,
		Owner:     "0x2222222222222222222222222222222222222222",
		Pair:      "TKA/TKB",
		Decoded: MintEventData{
			Provider: "0x2222222222222222222222222222222222222222",
			AmountX:  "1000",
			AmountY:  "4000",
			Shares:   "2000",
		},
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var record EventRecord
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if record.Seq != 7 || record.EventName != EventMint {
		t.Fatalf("record header mismatch: %+v", record)
	}

	var mint MintEventData
	if err := json.Unmarshal(record.Decoded, &mint); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if mint.Shares != "2000" {
		t.Fatalf("payload mismatch: %+v", mint)
	}
}
