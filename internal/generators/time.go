package generators

import (
	"fmt"
	"time"

	"github.com/mmrzaf/sdstats/internal/distributions"
	"github.com/mmrzaf/sdstats/internal/kwargs"
	"github.com/mmrzaf/sdstats/internal/stats"
	"github.com/mmrzaf/sdstats/internal/timeutil"
)

var timeReserved = []string{
	"start", "end", "input_format", "output_format", "output_type",
	"distribution", "null_prop", "null_value",
}

type GenerateTimeGenerator struct{}

func parseTimeRequest(params map[string]interface{}) (stats.TimeRequest, string, error) {
	var req stats.TimeRequest
	var err error
	req.Start = params["start"]
	req.End = params["end"]
	if req.InputFormat, err = kwargs.String(params, "input_format", ""); err != nil {
		return req, "", err
	}
	if req.OutputFormat, err = kwargs.String(params, "output_format", ""); err != nil {
		return req, "", err
	}
	if err := timeutil.ValidateFormat(req.OutputFormat); err != nil {
		return req, "", err
	}
	out, err := kwargs.String(params, "output_type", string(stats.OutputDatetime))
	if err != nil {
		return req, "", err
	}
	req.OutputType = stats.OutputType(out)
	if !req.OutputType.Valid() {
		return req, "", fmt.Errorf("%w: %q", stats.ErrUnknownOutputType, out)
	}
	dist, err := kwargs.String(params, "distribution", "")
	if err != nil {
		return req, "", err
	}
	n, err := parseNulls(params)
	if err != nil {
		return req, "", err
	}
	req.NullProp = n.prop
	req.NullValue = n.value
	req.Params = kwargs.Without(params, timeReserved...)
	if dist != "" {
		if err := distributions.Validate(dist, req.Params); err != nil {
			return req, "", err
		}
	}
	return req, dist, nil
}

func (g *GenerateTimeGenerator) Validate(params map[string]interface{}) error {
	return validateWith("generate_time", params, []string{"start", "end"}, func(p map[string]interface{}) error {
		req, _, err := parseTimeRequest(p)
		if err != nil {
			return err
		}
		now := time.Now()
		if _, err := stats.LoadTime(req.Start, req.InputFormat, now); err != nil {
			return err
		}
		_, err = stats.LoadTime(req.End, req.InputFormat, now)
		return err
	})
}

func (g *GenerateTimeGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	req, dist, err := parseTimeRequest(params)
	if err != nil {
		return nil, err
	}
	req.Now = ctx.Now
	if dist != "" {
		req.Distribution = func(p map[string]interface{}) (float64, error) {
			return distributions.Sample(dist, p, ctx.Source)
		}
	}
	return stats.NewTimeDistribution(ctx.Stats).GenerateTime(req)
}
