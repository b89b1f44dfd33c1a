package matrix

import (
	"fmt"
	"strings"
)

// Name identifies one generated benchmark. Its string form is
//
//	{memmem|memrmem}/{impl}/{mode}/{input}/{tier}-{query}
//
// Components are joined as is; Define validates them before expansion.
type Name struct {
	Direction Direction
	Impl      string
	Mode      Mode
	Input     string
	Tier      Tier
	Query     string
}

func (n Name) String() string {
	var sb strings.Builder
	sb.Grow(len(n.Impl) + len(n.Input) + len(n.Query) + 32)
	sb.WriteString(n.Direction.Group())
	sb.WriteByte('/')
	sb.WriteString(n.Impl)
	sb.WriteByte('/')
	sb.WriteString(n.Mode.String())
	sb.WriteByte('/')
	sb.WriteString(n.Input)
	sb.WriteByte('/')
	sb.WriteString(n.Tier.String())
	sb.WriteByte('-')
	sb.WriteString(n.Query)
	return sb.String()
}

// ParseName decodes a benchmark name produced by Name.String.
func ParseName(s string) (Name, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 5 {
		return Name{}, fmt.Errorf("%w: %q: want 5 components, have %d", ErrInvalidName, s, len(parts))
	}

	var n Name
	var ok bool
	if n.Direction, ok = parseGroup(parts[0]); !ok {
		return Name{}, fmt.Errorf("%w: %q: unknown group %q", ErrInvalidName, s, parts[0])
	}

	n.Impl = parts[1]
	if err := checkComponent("implementation", n.Impl); err != nil {
		return Name{}, err
	}

	var err error
	if n.Mode, err = ParseMode(parts[2]); err != nil {
		return Name{}, fmt.Errorf("%w: %q: %v", ErrInvalidName, s, err)
	}

	n.Input = parts[3]
	if err := checkComponent("input", n.Input); err != nil {
		return Name{}, err
	}

	tier, query, ok := strings.Cut(parts[4], "-")
	if !ok {
		return Name{}, fmt.Errorf("%w: %q: missing tier separator", ErrInvalidName, s)
	}
	if n.Tier, err = ParseTier(tier); err != nil {
		return Name{}, fmt.Errorf("%w: %q: %v", ErrInvalidName, s, err)
	}
	n.Query = query
	if err := checkComponent("query", n.Query); err != nil {
		return Name{}, err
	}

	return n, nil
}
