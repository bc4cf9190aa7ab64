package generators

import (
	"errors"

	"github.com/mmrzaf/sdstats/internal/kwargs"
)

// CustomCodeGenerator fills a mask: 'char' positions become upper-case
// letters and 'digit' positions become digits.
type CustomCodeGenerator struct{}

type codeArgs struct {
	mask  string
	char  byte
	digit byte
}

func parseCode(params map[string]interface{}) (codeArgs, error) {
	mask, err := kwargs.String(params, "mask", "@###")
	if err != nil {
		return codeArgs{}, err
	}
	char, err := kwargs.String(params, "char", "@")
	if err != nil {
		return codeArgs{}, err
	}
	digit, err := kwargs.String(params, "digit", "#")
	if err != nil {
		return codeArgs{}, err
	}
	if len(char) != 1 || len(digit) != 1 {
		return codeArgs{}, errors.New("'char' and 'digit' must be single characters")
	}
	if char == digit {
		return codeArgs{}, errors.New("'char' and 'digit' must differ")
	}
	return codeArgs{mask: mask, char: char[0], digit: digit[0]}, nil
}

func (g *CustomCodeGenerator) Validate(params map[string]interface{}) error {
	return validateWith("custom_code", params, nil, func(p map[string]interface{}) error {
		_, err := parseCode(p)
		return err
	})
}

func (g *CustomCodeGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	args, err := parseCode(params)
	if err != nil {
		return nil, err
	}
	out := []byte(args.mask)
	for i, c := range out {
		switch c {
		case args.char:
			out[i] = byte('A' + ctx.Rand.Intn(26))
		case args.digit:
			out[i] = byte('0' + ctx.Rand.Intn(10))
		}
	}
	return string(out), nil
}
