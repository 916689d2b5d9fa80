package consensus

import (
	"testing"
	"time"
)

func TestCalculateHash_EmptyInputsYieldsEmptyRoot(t *testing.T) {
	tx := Transaction{TxType: TxTypeCoinbase}
	if got := CalculateHash(tx); got != "" {
		t.Fatalf("coinbase-shaped tx with no inputs should hash to empty root, got %q", got)
	}
}

func TestCalculateHash_MatchesMerkleOfTxOIDs(t *testing.T) {
	tx := Transaction{
		Inputs: []UTXO{{TxOID: "aaa:0"}, {TxOID: "bbb:1"}},
	}
	want := MerkleRoot([][]byte{[]byte("aaa:0"), []byte("bbb:1")})
	if got := CalculateHash(tx); got != want {
		t.Fatalf("got=%s want=%s", got, want)
	}
}

func TestGenerateCoinbase_Shape(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tx := GenerateCoinbase(5000, "addrA", now)

	if tx.TxType != TxTypeCoinbase {
		t.Fatalf("expected coinbase txtype, got %s", tx.TxType)
	}
	if len(tx.Inputs) != 0 {
		t.Fatalf("coinbase must have no inputs")
	}
	if len(tx.Outputs) != 1 {
		t.Fatalf("coinbase must have exactly one output, got %d", len(tx.Outputs))
	}
	out := tx.Outputs[0]
	if out.Addr != "addrA" || out.Amount != 5000 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.TxOID != tx.ID+":0" {
		t.Fatalf("output txoid %q should be id:0 (%q)", out.TxOID, tx.ID+":0")
	}
}

func TestGenerateCoinbase_Deterministic(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	a := GenerateCoinbase(100, "addr", now)
	b := GenerateCoinbase(100, "addr", now)
	if a.ID != b.ID {
		t.Fatalf("same amount/addr/time should yield same coinbase id")
	}
}

func TestSum(t *testing.T) {
	list := []UTXO{{Amount: 10}, {Amount: 20}, {Amount: 30}}
	if got := Sum(list).Int64(); got != 60 {
		t.Fatalf("got=%d want=60", got)
	}
}

func TestFee(t *testing.T) {
	tx := Transaction{
		Inputs:  []UTXO{{Amount: 100}},
		Outputs: []UTXO{{Amount: 60}, {Amount: 30}},
	}
	if got := Fee(tx).Int64(); got != 10 {
		t.Fatalf("got=%d want=10", got)
	}
}
