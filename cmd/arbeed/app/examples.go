package app

import (
	"encoding/hex"
	"strings"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/commands"
	"github.com/arbee-network/arbee/crypto"
	"github.com/arbee-network/arbee/x/custody"
	"github.com/arbee-network/arbee/x/invoice"
	"github.com/arbee-network/arbee/x/sigs"
)

// we fix the private keys here for deterministic output with the same encoding
// these are not secure at all, but the only point is to check the format,
// which is easier when everything is reproducible.
var (
	payee      = makePrivKey("1234567890")
	payer      = makePrivKey("F00BA411")
	arbitrator = makePrivKey("00CAFE00F00D").PublicKey().Address()
)

// makePrivKey repeats the string as long as needed to get 64 digits, then
// parses it as hex. It uses this repeated string as a "random" seed
// for the private key.
func makePrivKey(seed string) *crypto.PrivateKey {
	rep := 64/len(seed) + 1
	in := strings.Repeat(seed, rep)[:64]
	bin, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return crypto.PrivKeyEd25519FromSeed(bin)
}

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	meta := &arbee.Metadata{Schema: 1}
	pub := payee.PublicKey()

	inv := &invoice.Invoice{
		Metadata:           meta,
		Payee:              pub.Address(),
		Payer:              payer.PublicKey().Address(),
		Arbitrator:         arbitrator,
		Asset:              custody.NativeAsset,
		Title:              "Website redesign",
		Description:        "Second milestone",
		RequestedUnits:     1000,
		CustodiedBalance:   400,
		ArbitratorFeeUnits: 50,
		State:              invoice.StateNew,
	}

	wallet := custody.NewWallet()
	wallet.Metadata = meta
	wallet.Balances = []*custody.Balance{
		{Asset: custody.NativeAsset, Units: 5000},
		{Asset: "USDT", Units: 150},
	}

	user := &sigs.UserData{
		Metadata: meta,
		Pubkey:   pub,
		Sequence: 17,
	}

	create := &invoice.CreateMsg{
		Metadata:           meta,
		Asset:              custody.NativeAsset,
		RequestedUnits:     1000,
		Title:              "Website redesign",
		Payer:              payer.PublicKey().Address(),
		Arbitrator:         arbitrator,
		ArbitratorFeeUnits: 50,
	}
	deposit := &invoice.DepositMsg{
		Metadata:  meta,
		InvoiceID: 0,
		Amount:    400,
		Value:     400,
	}

	unsigned, err := NewTx(create)
	if err != nil {
		panic(err)
	}
	tx := *unsigned
	sig, err := sigs.SignTx(payee, &tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	depositTx, err := NewTx(deposit)
	if err != nil {
		panic(err)
	}

	return []commands.Example{
		{Filename: "invoice", Obj: inv},
		{Filename: "wallet", Obj: wallet},
		{Filename: "priv_key", Obj: payee},
		{Filename: "pub_key", Obj: pub},
		{Filename: "user", Obj: user},
		{Filename: "create_invoice_msg", Obj: create},
		{Filename: "deposit_invoice_msg", Obj: deposit},
		{Filename: "unsigned_tx", Obj: unsigned},
		{Filename: "signed_tx", Obj: &tx},
		{Filename: "deposit_tx", Obj: depositTx},
	}
}
