package config

import (
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
)

var shapes = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_out_quad":  ease.InOutQuad,
	"in_out_cubic": ease.InOutCubic,
	"in_out_sine":  ease.InOutSine,
	"out_bounce":   ease.OutBounce,
}

// ParseShape returns the easing curve used to shape terrain noise.
func ParseShape(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := shapes[name]
	if !ok {
		return nil, fmt.Errorf("unknown terrain shape %q (want one of %v)", name, ShapeNames())
	}
	return fn, nil
}

// ShapeNames lists the accepted terrain.shape values.
func ShapeNames() []string {
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
