package generators

import (
	randv2 "math/rand/v2"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/mmrzaf/sdstats/internal/kwargs"
)

// NewFaker returns a gofakeit faker on a PCG stream derived from seed.
// gofakeit.New treats seed 0 as "random", so the PCG is built directly.
func NewFaker(seed int64) *gofakeit.Faker {
	return gofakeit.NewFaker(randv2.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15), false)
}

// FakeitFunc adapts a gofakeit method bound to the field's faker.
type FakeitFunc func(f *gofakeit.Faker, params map[string]interface{}) (interface{}, error)

func (fn FakeitFunc) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	return fn(ctx.Faker, params)
}

func (fn FakeitFunc) Validate(params map[string]interface{}) error {
	if _, err := kwargs.Int(params, "words", 0); err != nil {
		return err
	}
	return nil
}

func str(fn func(f *gofakeit.Faker) string) FakeitFunc {
	return func(f *gofakeit.Faker, _ map[string]interface{}) (interface{}, error) {
		return fn(f), nil
	}
}

func personMethods() map[string]Generator {
	return map[string]Generator{
		"full_name":  str(func(f *gofakeit.Faker) string { return f.Name() }),
		"first_name": str(func(f *gofakeit.Faker) string { return f.FirstName() }),
		"last_name":  str(func(f *gofakeit.Faker) string { return f.LastName() }),
		"email":      str(func(f *gofakeit.Faker) string { return f.Email() }),
		"telephone":  str(func(f *gofakeit.Faker) string { return f.Phone() }),
		"gender":     str(func(f *gofakeit.Faker) string { return f.Gender() }),
		"username":   str(func(f *gofakeit.Faker) string { return f.Username() }),
		"occupation": str(func(f *gofakeit.Faker) string { return f.JobTitle() }),
		"age": FakeitFunc(func(f *gofakeit.Faker, params map[string]interface{}) (interface{}, error) {
			minAge, err := kwargs.Int(params, "minimum", 16)
			if err != nil {
				return nil, err
			}
			maxAge, err := kwargs.Int(params, "maximum", 66)
			if err != nil {
				return nil, err
			}
			return f.IntRange(int(minAge), int(maxAge)), nil
		}),
	}
}

func addressMethods() map[string]Generator {
	return map[string]Generator{
		"city":         str(func(f *gofakeit.Faker) string { return f.City() }),
		"street_name":  str(func(f *gofakeit.Faker) string { return f.Street() }),
		"state":        str(func(f *gofakeit.Faker) string { return f.State() }),
		"postal_code":  str(func(f *gofakeit.Faker) string { return f.Zip() }),
		"country":      str(func(f *gofakeit.Faker) string { return f.Country() }),
		"country_code": str(func(f *gofakeit.Faker) string { return f.CountryAbr() }),
		"latitude": FakeitFunc(func(f *gofakeit.Faker, _ map[string]interface{}) (interface{}, error) {
			return f.Latitude(), nil
		}),
		"longitude": FakeitFunc(func(f *gofakeit.Faker, _ map[string]interface{}) (interface{}, error) {
			return f.Longitude(), nil
		}),
	}
}

func internetMethods() map[string]Generator {
	return map[string]Generator{
		"url":        str(func(f *gofakeit.Faker) string { return f.URL() }),
		"hostname":   str(func(f *gofakeit.Faker) string { return f.DomainName() }),
		"ip_v4":      str(func(f *gofakeit.Faker) string { return f.IPv4Address() }),
		"ip_v6":      str(func(f *gofakeit.Faker) string { return f.IPv6Address() }),
		"user_agent": str(func(f *gofakeit.Faker) string { return f.UserAgent() }),
	}
}

func textMethods() map[string]Generator {
	return map[string]Generator{
		"word":  str(func(f *gofakeit.Faker) string { return f.Word() }),
		"color": str(func(f *gofakeit.Faker) string { return f.Color() }),
		"sentence": FakeitFunc(func(f *gofakeit.Faker, params map[string]interface{}) (interface{}, error) {
			words, err := kwargs.Int(params, "words", 8)
			if err != nil {
				return nil, err
			}
			return f.Sentence(int(words)), nil
		}),
	}
}
