// Package quantity converts Kubernetes resource quantity strings into canonical
// numeric values: millicores for CPU and mebibytes for memory and storage.
package quantity

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
)

// ErrAmbiguousQuantity is returned alongside a best-effort value when the input
// carries a suffix that is not a recognized unit.
var ErrAmbiguousQuantity = errors.New("ambiguous resource quantity")

// Kind is the resource class a quantity belongs to.
type Kind int

const (
	CPU Kind = iota
	Memory
	Storage
)

func (k Kind) String() string {
	switch k {
	case CPU:
		return "cpu"
	case Memory:
		return "memory"
	case Storage:
		return "storage"
	default:
		return "unknown"
	}
}

// Unit is the canonical unit of a ResourceQuantity.
type Unit int

const (
	unitNone Unit = iota
	Millicores
	Mebibytes
)

func (u Unit) String() string {
	switch u {
	case Millicores:
		return "m"
	case Mebibytes:
		return "Mi"
	default:
		return ""
	}
}

// MarshalText renders the unit as its suffix.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText accepts the suffixes produced by MarshalText.
func (u *Unit) UnmarshalText(b []byte) error {
	switch string(b) {
	case "m":
		*u = Millicores
	case "Mi":
		*u = Mebibytes
	case "":
		*u = unitNone
	default:
		return fmt.Errorf("unknown unit %q", string(b))
	}
	return nil
}

const bytesPerMebibyte = 1024 * 1024

// ResourceQuantity is a value expressed in the canonical unit of its kind.
type ResourceQuantity struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// UnitFor returns the canonical unit used for kind.
func UnitFor(kind Kind) Unit {
	if kind == CPU {
		return Millicores
	}
	return Mebibytes
}

// Zero returns the canonical zero for kind.
func Zero(kind Kind) ResourceQuantity {
	return ResourceQuantity{Unit: UnitFor(kind)}
}

// Parse converts s into the canonical unit for kind. Empty input yields zero.
// When s has an unrecognized suffix its leading number is read as a bare number
// and the returned error wraps ErrAmbiguousQuantity; the value is still usable.
func Parse(kind Kind, s string) (ResourceQuantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero(kind), nil
	}

	q, err := resource.ParseQuantity(s)
	if err == nil {
		if q.Format == resource.BinarySI && q.AsApproximateFloat64() >= math.MaxInt64 {
			// ParseQuantity caps binary quantities at MaxInt64 bytes
			if v, ok := binaryValue(s); ok {
				return fromBase(kind, v), nil
			}
		}
		return FromQuantity(kind, q), nil
	}

	prefix := numericPrefix(s)
	if prefix == "" {
		return Zero(kind), fmt.Errorf("%w: %s %q is not numeric", ErrAmbiguousQuantity, kind, s)
	}
	bare, perr := resource.ParseQuantity(prefix)
	if perr != nil {
		return Zero(kind), fmt.Errorf("%w: %s %q is not numeric", ErrAmbiguousQuantity, kind, s)
	}
	return FromQuantity(kind, bare), fmt.Errorf("%w: %s %q has unrecognized suffix %q, read as %s",
		ErrAmbiguousQuantity, kind, s, strings.TrimPrefix(s, prefix), prefix)
}

// MustParse is Parse for literals known to be valid. It panics on ambiguity.
func MustParse(kind Kind, s string) ResourceQuantity {
	q, err := Parse(kind, s)
	if err != nil {
		panic(err)
	}
	return q
}

// Add sums two canonical values. A zero ResourceQuantity takes the unit of the
// other operand; otherwise both must share a unit.
func (q ResourceQuantity) Add(o ResourceQuantity) ResourceQuantity {
	switch {
	case q.Unit == unitNone:
		return ResourceQuantity{Value: q.Value + o.Value, Unit: o.Unit}
	case o.Unit == unitNone:
		return ResourceQuantity{Value: q.Value + o.Value, Unit: q.Unit}
	case q.Unit != o.Unit:
		panic(fmt.Sprintf("quantity: adding %s to %s", o.Unit, q.Unit))
	}
	return ResourceQuantity{Value: q.Value + o.Value, Unit: q.Unit}
}

// Quantities beyond these magnitudes no longer fit in int64 at nano-core or
// byte precision.
const (
	maxExactCores = math.MaxInt64 / 1e9
	maxExactBytes = math.MaxInt64 / 2
)

// FromQuantity converts an already parsed API quantity. Values too large for
// exact int64 conversion go through float64 instead of wrapping or clamping.
func FromQuantity(kind Kind, q resource.Quantity) ResourceQuantity {
	approx := q.AsApproximateFloat64()
	if kind == CPU {
		if math.Abs(approx) >= maxExactCores {
			return fromBase(kind, approx)
		}
		return ResourceQuantity{Value: float64(q.ScaledValue(resource.Nano)) / 1e6, Unit: Millicores}
	}
	if math.Abs(approx) >= maxExactBytes {
		return fromBase(kind, approx)
	}
	return ResourceQuantity{Value: float64(q.Value()) / bytesPerMebibyte, Unit: Mebibytes}
}

// fromBase converts cores or bytes to the canonical unit of kind
func fromBase(kind Kind, v float64) ResourceQuantity {
	if kind == CPU {
		return ResourceQuantity{Value: v * 1000, Unit: Millicores}
	}
	return ResourceQuantity{Value: v / bytesPerMebibyte, Unit: Mebibytes}
}

var binarySuffixes = map[string]float64{
	"Ki": 1 << 10,
	"Mi": 1 << 20,
	"Gi": 1 << 30,
	"Ti": 1 << 40,
	"Pi": 1 << 50,
	"Ei": 1 << 60,
}

// binaryValue reads a binary-suffixed quantity as float64 without the int64 cap
func binaryValue(s string) (float64, bool) {
	prefix := numericPrefix(s)
	factor, ok := binarySuffixes[strings.TrimPrefix(s, prefix)]
	if !ok || prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return v * factor, true
}

// Format renders q so that Parse reads back the same value.
func Format(q ResourceQuantity) string {
	return strconv.FormatFloat(q.Value, 'f', -1, 64) + q.Unit.String()
}

// FormatGi renders a mebibyte value in gibibytes with one decimal.
func FormatGi(mib float64) string {
	return strconv.FormatFloat(mib/1024, 'f', 1, 64) + "Gi"
}

// Human picks Mi or Gi for a mebibyte value, and m for millicores.
func Human(q ResourceQuantity) string {
	if q.Unit == Mebibytes {
		if q.Value >= 1024 {
			return FormatGi(q.Value)
		}
		return strconv.FormatFloat(q.Value, 'f', 0, 64) + "Mi"
	}
	return strconv.FormatFloat(q.Value, 'f', 0, 64) + "m"
}

func numericPrefix(s string) string {
	end := 0
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '+' || r == '-') && i == 0:
		default:
			return s[:end]
		}
	}
	return s[:end]
}
