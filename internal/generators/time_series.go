package generators

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmrzaf/sdstats/internal/kwargs"
	"github.com/mmrzaf/sdstats/internal/timeutil"
)

// TimeSeriesGenerator emits start + row*step, optionally jittered.
type TimeSeriesGenerator struct{}

type seriesArgs struct {
	start  time.Time
	step   time.Duration
	jitter int64
}

func parseSeries(params map[string]interface{}, now time.Time) (seriesArgs, error) {
	startStr, err := kwargs.String(params, "start", "")
	if err != nil {
		return seriesArgs{}, err
	}
	stepStr, err := kwargs.String(params, "step", "")
	if err != nil {
		return seriesArgs{}, err
	}
	if startStr == "" || stepStr == "" {
		return seriesArgs{}, errors.New("'start' and 'step' cannot be empty")
	}

	startTime, err := timeutil.ParseTime(startStr, now)
	if err != nil {
		return seriesArgs{}, fmt.Errorf("invalid start time: %w", err)
	}
	stepDuration, err := timeutil.ParseDuration(stepStr)
	if err != nil {
		return seriesArgs{}, fmt.Errorf("invalid step duration: %w", err)
	}
	jitter, err := kwargs.Int(params, "jitter_seconds", 0)
	if err != nil {
		return seriesArgs{}, err
	}
	if jitter < 0 {
		return seriesArgs{}, errors.New("'jitter_seconds' must not be negative")
	}
	return seriesArgs{start: startTime, step: stepDuration, jitter: jitter}, nil
}

func (g *TimeSeriesGenerator) Validate(params map[string]interface{}) error {
	return validateWith("time_series", params, []string{"start", "step"}, func(p map[string]interface{}) error {
		_, err := parseSeries(p, time.Now())
		return err
	})
}

func (g *TimeSeriesGenerator) Generate(ctx *GeneratorContext, params map[string]interface{}) (interface{}, error) {
	args, err := parseSeries(params, ctx.Now)
	if err != nil {
		return nil, err
	}

	timestamp := args.start.Add(time.Duration(ctx.RowIndex) * args.step)
	if args.jitter > 0 {
		jitter := ctx.Rand.Int63n(args.jitter*2) - args.jitter
		timestamp = timestamp.Add(time.Duration(jitter) * time.Second)
	}
	return timestamp, nil
}
