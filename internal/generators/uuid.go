package generators

import (
	"github.com/google/uuid"
)

// UUID4Generator builds version 4 UUIDs from the schema's stream so they
// repeat under the same seed.
type UUID4Generator struct{}

func (g *UUID4Generator) Generate(ctx *GeneratorContext, _ map[string]interface{}) (interface{}, error) {
	var b [16]byte
	ctx.Rand.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	u, err := uuid.FromBytes(b[:])
	if err != nil {
		return nil, err
	}
	return u.String(), nil
}

func (g *UUID4Generator) Validate(map[string]interface{}) error {
	return nil
}
