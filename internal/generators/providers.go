package generators

// Providers groups the built-in methods by provider name. Each method is
// addressed as "provider.method".
func Providers() map[string]map[string]Generator {
	return map[string]map[string]Generator{
		"distribution": {
			"generic_distribution":  &GenericDistributionGenerator{},
			"discrete_distribution": &DiscreteDistributionGenerator{},
		},
		"multi_variable": {
			"dependent_variables": &DependentVariablesGenerator{},
		},
		"time": {
			"generate_time": &GenerateTimeGenerator{},
		},
		"choice": {
			"choice": &ChoiceGenerator{},
		},
		"random": {
			"uniform":     &UniformFloatGenerator{},
			"randint":     &UniformIntGenerator{},
			"normal":      &NormalGenerator{},
			"truncnorm":   &TruncNormGenerator{},
			"custom_code": &CustomCodeGenerator{},
		},
		"const": {
			"value": &ConstGenerator{},
		},
		"uuid": {
			"uuid4": &UUID4Generator{},
		},
		"datetime": {
			"time_series": &TimeSeriesGenerator{},
		},
		"person":   personMethods(),
		"address":  addressMethods(),
		"internet": internetMethods(),
		"text":     textMethods(),
		"faker":    fakerMethods(),
	}
}
