package generators

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/go-faker/faker/v4"
)

var fakerSourceMu sync.Mutex

// SeedFakerSource points the faker package at a seeded source. faker keeps
// one process-wide source, so only one seeded field should drive faker.*
// methods at a time.
func SeedFakerSource(seed int64) {
	fakerSourceMu.Lock()
	defer fakerSourceMu.Unlock()
	faker.SetRandomSource(faker.NewSafeSource(rand.NewSource(seed)))
}

// FakerFunc adapts a no-argument faker function.
type FakerFunc func() string

func (f FakerFunc) Generate(*GeneratorContext, map[string]interface{}) (interface{}, error) {
	return f(), nil
}

func (f FakerFunc) Validate(map[string]interface{}) error { return nil }

func fakerMethods() map[string]Generator {
	return map[string]Generator{
		"name":        FakerFunc(func() string { return faker.Name() }),
		"first_name":  FakerFunc(func() string { return faker.FirstName() }),
		"last_name":   FakerFunc(func() string { return faker.LastName() }),
		"email":       FakerFunc(func() string { return faker.Email() }),
		"phone":       FakerFunc(func() string { return faker.Phonenumber() }),
		"username":    FakerFunc(func() string { return faker.Username() }),
		"word":        FakerFunc(func() string { return faker.Word() }),
		"sentence":    FakerFunc(func() string { return faker.Sentence() }),
		"ipv4":        FakerFunc(func() string { return faker.IPv4() }),
		"url":         FakerFunc(func() string { return faker.URL() }),
		"city":        &FakerCityGenerator{},
		"device_name": &FakerDeviceNameGenerator{},
	}
}

var cities = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
	"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose",
	"Austin", "Jacksonville", "Fort Worth", "Columbus", "Charlotte",
	"San Francisco", "Indianapolis", "Seattle", "Denver", "Washington",
	"Boston", "Nashville", "Detroit", "Portland", "Las Vegas",
	"London", "Paris", "Tokyo", "Berlin", "Madrid",
	"Rome", "Amsterdam", "Vienna", "Prague", "Barcelona",
	"Munich", "Milan", "Stockholm", "Copenhagen", "Oslo",
}

// FakerCityGenerator draws from a fixed city list on the field's own stream.
type FakerCityGenerator struct{}

func (g *FakerCityGenerator) Generate(ctx *GeneratorContext, _ map[string]interface{}) (interface{}, error) {
	return cities[ctx.Rand.Intn(len(cities))], nil
}

func (g *FakerCityGenerator) Validate(map[string]interface{}) error { return nil }

type FakerDeviceNameGenerator struct{}

func (g *FakerDeviceNameGenerator) Generate(ctx *GeneratorContext, _ map[string]interface{}) (interface{}, error) {
	prefixes := []string{"Sensor", "Device", "Meter", "Gauge", "Monitor", "Detector", "Reader", "Tracker"}
	suffixes := []string{"Alpha", "Beta", "Gamma", "Delta", "Prime", "Pro", "Max", "Plus"}

	prefix := prefixes[ctx.Rand.Intn(len(prefixes))]
	suffix := suffixes[ctx.Rand.Intn(len(suffixes))]
	return fmt.Sprintf("%s-%s-%s-%04d", faker.Username(), prefix, suffix, ctx.Rand.Intn(10000)), nil
}

func (g *FakerDeviceNameGenerator) Validate(map[string]interface{}) error { return nil }
