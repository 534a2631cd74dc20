package arbee

import (
	"encoding/json"
	"testing"

	"github.com/arbee-network/arbee/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond    Condition
		wantExt string
		wantTyp string
		wantErr *errors.Error
	}{
		"signature condition": {
			cond:    NewCondition("sigs", "ed25519", []byte{1, 2, 3}),
			wantExt: "sigs",
			wantTyp: "ed25519",
		},
		"sequence condition": {
			cond:    SequenceCondition("invoice", 7),
			wantExt: "invoice",
			wantTyp: "seq",
		},
		"missing data": {
			cond:    Condition("sigs/ed25519/"),
			wantErr: errors.ErrInvalidInput,
		},
		"extension too short": {
			cond:    Condition("no/ed25519/data"),
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, _, err := tc.cond.Parse()
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.wantExt, ext)
			assert.Equal(t, tc.wantTyp, typ)
		})
	}
}

func TestSequenceConditionIsUnique(t *testing.T) {
	a := SequenceCondition("invoice", 0).Address()
	b := SequenceCondition("invoice", 1).Address()
	require.NoError(t, a.Validate())
	assert.False(t, a.Equals(b))
	assert.True(t, a.Equals(SequenceCondition("invoice", 0).Address()))
}

func TestAddressJSON(t *testing.T) {
	addr := NewCondition("sigs", "ed25519", []byte("alice")).Address()

	bech, err := addr.Bech32()
	require.NoError(t, err)

	cond := NewCondition("sigs", "ed25519", []byte("alice"))

	cases := map[string]struct {
		json    string
		want    Address
		wantErr *errors.Error
	}{
		"default hex": {
			json: `"` + addr.String() + `"`,
			want: addr,
		},
		"explicit hex": {
			json: `"hex:` + addr.String() + `"`,
			want: addr,
		},
		"condition": {
			json: `"cond:` + cond.String() + `"`,
			want: addr,
		},
		"bech32": {
			json: `"bech32:` + bech + `"`,
			want: addr,
		},
		"empty is nil": {
			json: `""`,
			want: nil,
		},
		"wrong length": {
			json:    `"AABB"`,
			wantErr: errors.ErrInvalidInput,
		},
		"unknown format": {
			json:    `"base64:AABB"`,
			wantErr: errors.ErrInvalidType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got Address
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := NewAddress([]byte("bob"))
	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var back Address
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, addr, back)
}

func TestParseAddress(t *testing.T) {
	addr := NewAddress([]byte("carol"))

	got, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	_, err = ParseAddress("")
	assert.True(t, errors.ErrEmpty.Is(err))

	_, err = ParseAddress("zz")
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
