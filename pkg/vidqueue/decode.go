package vidqueue

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode converts an untyped result returned by a Client method into T, using
// the json tags of T. Unknown members are ignored.
//
//	raw, err := client.History(ctx)
//	...
//	records, err := vidqueue.Decode[[]vidqueue.Download](raw)
func Decode[T any](v any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(v); err != nil {
		return out, fmt.Errorf("decode %T: %w", out, err)
	}
	return out, nil
}
