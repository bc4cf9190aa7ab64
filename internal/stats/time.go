package stats

import (
	"database/sql/driver"
	"fmt"
	"math"
	"time"

	"github.com/mmrzaf/sdstats/internal/timeutil"
)

type OutputType string

const (
	OutputDatetime OutputType = "datetime"
	OutputString   OutputType = "string"
	OutputDate     OutputType = "date"
	OutputTime     OutputType = "time"
)

func (o OutputType) Valid() bool {
	switch o {
	case OutputDatetime, OutputString, OutputDate, OutputTime:
		return true
	}
	return false
}

// ProportionFunc draws a position inside a time range; results must lie in [0, 1].
type ProportionFunc func(params map[string]interface{}) (float64, error)

type TimeRequest struct {
	// Start and End are time.Time, Date, or strings parsed with InputFormat.
	Start        interface{}
	End          interface{}
	InputFormat  string
	OutputFormat string
	// OutputType defaults to OutputDatetime.
	OutputType OutputType
	// Distribution defaults to uniform over [0, 1).
	Distribution ProportionFunc
	Params       map[string]interface{}
	NullProp     float64
	NullValue    interface{}
	// Now anchors relative inputs such as "-30d"; zero means time.Now().
	Now time.Time
}

type TimeDistribution struct {
	*Provider
}

func NewTimeDistribution(p *Provider) *TimeDistribution {
	return &TimeDistribution{Provider: p}
}

// GenerateTime samples an instant between Start and End, injects nulls and
// converts the result to the requested output type. Nulled values are
// returned unconverted.
func (td *TimeDistribution) GenerateTime(req TimeRequest) (interface{}, error) {
	outType := req.OutputType
	if outType == "" {
		outType = OutputDatetime
	}
	if !outType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutputType, outType)
	}
	if err := timeutil.ValidateFormat(req.OutputFormat); err != nil {
		return nil, fmt.Errorf("output format: %w", err)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	start, err := LoadTime(req.Start, req.InputFormat, now)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := LoadTime(req.End, req.InputFormat, now)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	sampled, err := td.SampleTime(start, end, req.Distribution, req.Params)
	if err != nil {
		return nil, err
	}

	v := td.Replace(sampled, req.NullProp, req.NullValue)
	ts, ok := v.(time.Time)
	if !ok {
		return v, nil
	}

	switch outType {
	case OutputString:
		return timeutil.FormatTime(ts, req.OutputFormat)
	case OutputDate:
		return DateOf(ts), nil
	case OutputTime:
		return TimeOfDayOf(ts), nil
	default:
		return ts, nil
	}
}

// LoadTime converts v into a time.Time. Strings are parsed with format,
// which may be a Go layout or a strftime pattern; without a format the
// usual absolute forms and relative offsets are accepted.
func LoadTime(v interface{}, format string, now time.Time) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case *time.Time:
		if val == nil {
			return time.Time{}, fmt.Errorf("%w: nil time", ErrInvalidTime)
		}
		return *val, nil
	case Date:
		return val.Time(time.UTC), nil
	case string:
		if format == "" {
			t, err := timeutil.ParseTime(val, now)
			if err != nil {
				return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTime, err)
			}
			return t, nil
		}
		t, err := timeutil.ParseTimeFormat(val, format)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTime, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%w: must convert to a time, got %T", ErrInvalidTime, v)
	}
}

// SampleTime draws a proportion from dist and interpolates linearly between
// start and end. A degenerate range returns start whatever the draw.
func (td *TimeDistribution) SampleTime(start, end time.Time, dist ProportionFunc, params map[string]interface{}) (time.Time, error) {
	if dist == nil {
		dist = td.uniform
	}
	proportion, err := dist(params)
	if err != nil {
		return time.Time{}, fmt.Errorf("sample proportion: %w", err)
	}
	if start.Equal(end) {
		return start, nil
	}
	if math.IsNaN(proportion) || proportion < 0 || proportion > 1 {
		return time.Time{}, fmt.Errorf("%w: got %v", ErrProportionOutOfRange, proportion)
	}
	return interpolate(start, end, proportion), nil
}

func (td *TimeDistribution) uniform(map[string]interface{}) (float64, error) {
	return td.rng.Float64(), nil
}

func interpolate(start, end time.Time, proportion float64) time.Time {
	if proportion == 1 {
		return end
	}
	span := end.Sub(start)
	if span != math.MaxInt64 && span != math.MinInt64 {
		return start.Add(time.Duration(proportion * float64(span)))
	}
	// Sub saturates beyond ~292 years; fall back to second arithmetic.
	secs := float64(end.Unix()-start.Unix()) + float64(end.Nanosecond()-start.Nanosecond())/1e9
	whole, frac := math.Modf(proportion * secs)
	return time.Unix(start.Unix()+int64(whole), int64(start.Nanosecond())+int64(frac*1e9)).In(start.Location())
}

// Date is a calendar day without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d Date) Value() (driver.Value, error) { return d.String(), nil }

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}
}

func (t TimeOfDay) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if us := t.Nanosecond / 1000; us > 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t TimeOfDay) Value() (driver.Value, error) { return t.String(), nil }
