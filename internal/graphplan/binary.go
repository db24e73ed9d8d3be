package graphplan

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// MarshalBinary encodes p field by field, implementing
// encoding.BinaryMarshaler so Problem can be REZI-encoded for storage
// (internal/plannerd/dao/sqlite).
func (p Proposition) MarshalBinary() ([]byte, error) {
	enc := rezi.EncString(p.Name)
	enc = append(enc, rezi.EncSliceString(p.Args)...)
	return enc, nil
}

// UnmarshalBinary decodes bytes produced by MarshalBinary.
func (p *Proposition) UnmarshalBinary(data []byte) error {
	name, n, err := rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("decode proposition name: %w", err)
	}
	data = data[n:]

	args, _, err := rezi.DecSliceString(data)
	if err != nil {
		return fmt.Errorf("decode proposition args: %w", err)
	}

	p.Name = name
	p.Args = args
	return nil
}

// encPropositions REZI-encodes a []Proposition the way rezi.EncSliceBinary
// would, were Proposition's UnmarshalBinary not pointer-receiver (which
// rules out using that generic directly over a []Proposition).
func encPropositions(props []Proposition) []byte {
	if props == nil {
		return rezi.EncInt(-1)
	}

	var body []byte
	for _, p := range props {
		body = append(body, rezi.EncBinary(p)...)
	}
	return append(rezi.EncInt(len(body)), body...)
}

func decPropositions(data []byte) ([]Proposition, int, error) {
	toConsume, n, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("decode proposition-list byte count: %w", err)
	}
	data = data[n:]
	total := n

	if toConsume == -1 {
		return nil, total, nil
	}
	if toConsume == 0 {
		return []Proposition{}, total, nil
	}
	if len(data) < toConsume {
		return nil, 0, fmt.Errorf("decode proposition list: unexpected EOF")
	}

	var props []Proposition
	consumed := 0
	for consumed < toConsume {
		var p Proposition
		read, err := rezi.DecBinary(data, &p)
		if err != nil {
			return nil, 0, fmt.Errorf("decode proposition: %w", err)
		}
		props = append(props, p)
		data = data[read:]
		consumed += read
	}
	return props, total + consumed, nil
}

// MarshalBinary encodes p field by field for storage
// (internal/plannerd/dao/sqlite's problem BLOB column).
func (p Problem) MarshalBinary() ([]byte, error) {
	var enc []byte
	enc = append(enc, rezi.EncSliceString(p.Cargos)...)
	enc = append(enc, rezi.EncSliceString(p.Rockets)...)
	enc = append(enc, rezi.EncSliceString(p.Places)...)
	enc = append(enc, encPropositions(p.Init)...)
	enc = append(enc, encPropositions(p.Goal)...)
	return enc, nil
}

// UnmarshalBinary decodes bytes produced by MarshalBinary.
func (p *Problem) UnmarshalBinary(data []byte) error {
	cargos, n, err := rezi.DecSliceString(data)
	if err != nil {
		return fmt.Errorf("decode cargos: %w", err)
	}
	data = data[n:]

	rockets, n, err := rezi.DecSliceString(data)
	if err != nil {
		return fmt.Errorf("decode rockets: %w", err)
	}
	data = data[n:]

	places, n, err := rezi.DecSliceString(data)
	if err != nil {
		return fmt.Errorf("decode places: %w", err)
	}
	data = data[n:]

	init, n, err := decPropositions(data)
	if err != nil {
		return fmt.Errorf("decode init: %w", err)
	}
	data = data[n:]

	goal, _, err := decPropositions(data)
	if err != nil {
		return fmt.Errorf("decode goal: %w", err)
	}

	p.Cargos = cargos
	p.Rockets = rockets
	p.Places = places
	p.Init = init
	p.Goal = goal
	return nil
}

// encInts REZI-encodes a []int the same length-prefixed way EncSliceString
// does, since the pinned rezi release has no EncSliceInt.
func encInts(ints []int) []byte {
	var body []byte
	for _, v := range ints {
		body = append(body, rezi.EncInt(v)...)
	}
	return append(rezi.EncInt(len(body)), body...)
}

func decInts(data []byte) ([]int, int, error) {
	toConsume, n, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("decode int-list byte count: %w", err)
	}
	data = data[n:]
	total := n

	if toConsume == 0 {
		return nil, total, nil
	}
	if len(data) < toConsume {
		return nil, 0, fmt.Errorf("decode int list: unexpected EOF")
	}

	var ints []int
	consumed := 0
	for consumed < toConsume {
		v, read, err := rezi.DecInt(data)
		if err != nil {
			return nil, 0, fmt.Errorf("decode int: %w", err)
		}
		ints = append(ints, v)
		data = data[read:]
		consumed += read
	}
	return ints, total + consumed, nil
}

// MarshalBinary encodes p as a level count followed by, per level, the
// ascending list of member action ids (internal/plannerd/dao/sqlite's plan
// BLOB column). Faithful round-tripping relies on actionIDs being assigned
// deterministically by Domain construction, so a decoded LayeredPlan is
// only meaningful alongside a Domain built from the same Problem (see
// Solve/NewProblemPlanner).
func (p LayeredPlan) MarshalBinary() ([]byte, error) {
	enc := rezi.EncInt(len(p))
	for _, level := range p {
		ids := level.Slice()
		intIDs := make([]int, len(ids))
		for i, id := range ids {
			intIDs[i] = int(id)
		}
		enc = append(enc, encInts(intIDs)...)
	}
	return enc, nil
}

// UnmarshalBinary decodes bytes produced by MarshalBinary.
func (p *LayeredPlan) UnmarshalBinary(data []byte) error {
	levelCount, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode level count: %w", err)
	}
	data = data[n:]

	plan := make(LayeredPlan, levelCount)
	for i := 0; i < levelCount; i++ {
		ids, read, err := decInts(data)
		if err != nil {
			return fmt.Errorf("decode level %d: %w", i, err)
		}
		data = data[read:]

		level := newIDSet[actionID](0)
		for _, id := range ids {
			level = level.Add(actionID(id))
		}
		plan[i] = level
	}

	*p = plan
	return nil
}
