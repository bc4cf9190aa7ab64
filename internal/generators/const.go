package generators

type ConstGenerator struct{}

func (g *ConstGenerator) Validate(params map[string]interface{}) error {
	return validateWith("const", params, []string{"value"}, nil)
}

func (g *ConstGenerator) Generate(_ *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	return params["value"], nil
}
