package decimal

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// bigFromWords assembles an arbitrary-precision integer from random words so
// properties cover numbers well beyond native width.
func bigFromWords(words []uint64) *big.Int {
	v := new(big.Int)
	for _, w := range words {
		v.Lsh(v, 64)
		v.Add(v, new(big.Int).SetUint64(w))
	}
	return v
}

// genBigNumber generates values from single digits up to several hundred bits.
func genBigNumber() gopter.Gen {
	return gen.SliceOfN(4, gen.UInt64()).Map(bigFromWords)
}

// TestAdd_MatchesBigInt_PropertyBased verifies the schoolbook adder against
// math/big over random arbitrary-precision operands.
func TestAdd_MatchesBigInt_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Add(x, y) equals big.Int addition digit-for-digit", prop.ForAll(
		func(xv, yv *big.Int) bool {
			x, err := Parse(xv.String())
			if err != nil {
				return false
			}
			y, err := Parse(yv.String())
			if err != nil {
				return false
			}
			sum, err := Add(x, y)
			if err != nil {
				return false
			}
			want := new(big.Int).Add(xv, yv)
			return sum.String() == want.String()
		},
		genBigNumber(),
		genBigNumber(),
	))

	properties.Property("Add is commutative", prop.ForAll(
		func(xv, yv *big.Int) bool {
			x, _ := Parse(xv.String())
			y, _ := Parse(yv.String())
			xy, err := Add(x, y)
			if err != nil {
				return false
			}
			yx, err := Add(y, x)
			if err != nil {
				return false
			}
			return xy.String() == yx.String()
		},
		genBigNumber(),
		genBigNumber(),
	))

	properties.Property("result length is max(m,n) or max(m,n)+1", prop.ForAll(
		func(xv, yv *big.Int) bool {
			x, _ := Parse(xv.String())
			y, _ := Parse(yv.String())
			sum, err := Add(x, y)
			if err != nil {
				return false
			}
			maxLen := x.Len()
			if y.Len() > maxLen {
				maxLen = y.Len()
			}
			return sum.Len() == maxLen || sum.Len() == maxLen+1
		},
		genBigNumber(),
		genBigNumber(),
	))

	properties.TestingRun(t)
}

// TestTableRecurrence_PropertyBased verifies the defining property of the
// table: every entry is the exact digit sum of its two predecessors.
func TestTableRecurrence_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	builder := NewBuilder(0)

	properties.Property("F(k) = F(k-1) + F(k-2) digit-exact", prop.ForAll(
		func(k uint64) bool {
			fk, err := builder.Sequence(k)
			if err != nil {
				return false
			}
			fk1, err := builder.Sequence(k - 1)
			if err != nil {
				return false
			}
			fk2, err := builder.Sequence(k - 2)
			if err != nil {
				return false
			}
			sum, err := Add(fk1, fk2)
			if err != nil {
				return false
			}
			return sum.String() == fk.String()
		},
		gen.UInt64Range(2, DefaultMaxIndex),
	))

	properties.Property("finalized form round-trips through Parse", prop.ForAll(
		func(k uint64) bool {
			s, n, err := builder.SequenceString(k)
			if err != nil || n != len(s) {
				return false
			}
			back, err := Parse(s)
			if err != nil {
				return false
			}
			return back.String() == s
		},
		gen.UInt64Range(0, DefaultMaxIndex),
	))

	properties.TestingRun(t)
}
